// Package settings resolves run settings and answers from, lowest first:
// built-in defaults, the state file of a previous run, an answers file,
// BOOTGEN_* environment variables and command-line flags.
package settings

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"shireesh.com/bootgen/internal/config"
	"shireesh.com/bootgen/internal/errdef"
	"shireesh.com/bootgen/internal/logs"
	"shireesh.com/bootgen/internal/state"
)

const EnvPrefix = "BOOTGEN"

type Settings struct {
	Output         string      `mapstructure:"output"`
	Templates      string      `mapstructure:"templates"`
	DryRun         bool        `mapstructure:"dryRun"`
	Diff           bool        `mapstructure:"diff"`
	NonInteractive bool        `mapstructure:"nonInteractive"`
	Log            logs.Config `mapstructure:"log"`

	// Answers is decoded from the top-level keys, so an answers file reads
	// like the prompts: packageName, baseName, ...
	Answers config.Answers `mapstructure:"-"`
}

// flag name -> settings key
var flagKeys = map[string]string{
	"output":          "output",
	"templates":       "templates",
	"dry-run":         "dryRun",
	"diff":            "diff",
	"non-interactive": "nonInteractive",
	"log-level":       "log.level",
	"log-file":        "log.file",
}

// RegisterFlags adds the settings flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("output", "o", ".", "directory the project is generated into")
	fs.StringP("templates", "t", "", "template pack (.zip) to use instead of the built-in templates")
	fs.Bool("dry-run", false, "report what would be written without touching the filesystem")
	fs.Bool("diff", false, "show a diff for every file that would be overwritten")
	fs.BoolP("non-interactive", "y", false, "do not prompt; take answers from the answers file, env and defaults")
	fs.String("log-level", "warn", "log level (debug, info, warn, error)")
	fs.String("log-file", "", "also write JSON logs to this file")
}

// Load resolves settings. flags may be nil; answersFile may be empty.
func Load(flags *pflag.FlagSet, answersFile string) (Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("output", ".")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.maxSize", 10)
	v.SetDefault("log.maxBackups", 3)
	v.SetDefault("log.maxAge", 28)
	setAnswerDefaults(v, config.DefaultAnswers())

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Settings{}, errdef.Wrap(errdef.CodeInvalidConfiguration, err, "bind flag %s", name)
				}
			}
		}
	}

	// a previous run's state prefills the identity answers
	st, err := state.Load(v.GetString("output"))
	if err != nil {
		return Settings{}, err
	}
	for _, k := range []string{state.KeyPackageName, state.KeyBaseName} {
		if val, ok := st.Get(k); ok && val != "" {
			v.SetDefault(k, val)
		}
	}

	if answersFile != "" {
		v.SetConfigFile(answersFile)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, errdef.Wrap(errdef.CodeInvalidConfiguration, err, "read answers file %s", answersFile)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, errdef.Wrap(errdef.CodeInvalidConfiguration, err, "decode settings")
	}
	if err := v.Unmarshal(&s.Answers); err != nil {
		return Settings{}, errdef.Wrap(errdef.CodeInvalidConfiguration, err, "decode answers")
	}
	return s, nil
}

// setAnswerDefaults registers every answer key so that env variables and
// files can override it.
func setAnswerDefaults(v *viper.Viper, a config.Answers) {
	v.SetDefault("packageName", a.PackageName)
	v.SetDefault("baseName", a.BaseName)
	v.SetDefault("serviceDescription", a.ServiceDescription)
	v.SetDefault("dockerRegistry", a.DockerRegistry)
	v.SetDefault("dockerPrefix", a.DockerPrefix)
	v.SetDefault("useSonar", a.UseSonar)
	v.SetDefault("useScmAndDm", a.UseScmAndDm)
	v.SetDefault("databaseType", a.DatabaseType)
	v.SetDefault("prodDatabaseType", a.ProdDatabaseType)
	v.SetDefault("devDatabaseType", a.DevDatabaseType)
}

// SaveAnswers writes a as an answers file that Load can read back.
func SaveAnswers(path string, a config.Answers) error {
	v := viper.New()
	setAnswerDefaults(v, a)
	if err := v.WriteConfigAs(path); err != nil {
		return errdef.Wrap(errdef.CodeInvalidConfiguration, err, "write answers file %s", path)
	}
	return nil
}
