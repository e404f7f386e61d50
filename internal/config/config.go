// Package config holds the validated answers a generator run works from.
//
// A Config is built once per invocation by New and is read-only afterwards.
// Database variant fields are set if and only if the database type is sql.
package config

import (
	"path/filepath"
	"regexp"
	"strings"

	"shireesh.com/bootgen/internal/errdef"
)

type DatabaseType string

const (
	DatabaseNone    DatabaseType = "none"
	DatabaseSQL     DatabaseType = "sql"
	DatabaseMongoDB DatabaseType = "mongodb"
)

type ProdDatabaseType string

const (
	ProdMySQL      ProdDatabaseType = "mysql"
	ProdPostgreSQL ProdDatabaseType = "postgresql"
)

type DevDatabaseType string

const (
	DevH2Memory   DevDatabaseType = "h2Memory"
	DevMySQL      DevDatabaseType = "mysql"
	DevPostgreSQL DevDatabaseType = "postgresql"
)

var (
	DatabaseTypes     = []string{string(DatabaseNone), string(DatabaseSQL), string(DatabaseMongoDB)}
	ProdDatabaseTypes = []string{string(ProdMySQL), string(ProdPostgreSQL)}
	DevDatabaseTypes  = []string{string(DevH2Memory), string(DevMySQL), string(DevPostgreSQL)}
)

// Answers are the raw prompt answers. Field names double as the keys of an
// answers file.
type Answers struct {
	PackageName        string `mapstructure:"packageName" yaml:"packageName"`
	BaseName           string `mapstructure:"baseName" yaml:"baseName"`
	ServiceDescription string `mapstructure:"serviceDescription" yaml:"serviceDescription"`
	DockerRegistry     string `mapstructure:"dockerRegistry" yaml:"dockerRegistry"`
	DockerPrefix       string `mapstructure:"dockerPrefix" yaml:"dockerPrefix"`
	UseSonar           bool   `mapstructure:"useSonar" yaml:"useSonar"`
	UseScmAndDm        bool   `mapstructure:"useScmAndDm" yaml:"useScmAndDm"`
	DatabaseType       string `mapstructure:"databaseType" yaml:"databaseType"`
	ProdDatabaseType   string `mapstructure:"prodDatabaseType" yaml:"prodDatabaseType"`
	DevDatabaseType    string `mapstructure:"devDatabaseType" yaml:"devDatabaseType"`
}

// DefaultAnswers returns the defaults offered by the interactive prompts.
func DefaultAnswers() Answers {
	return Answers{
		PackageName:        "com.example.myservice",
		BaseName:           "myservice",
		ServiceDescription: "This Microservice does awesome things",
		DockerPrefix:       "example",
		DatabaseType:       string(DatabaseNone),
	}
}

// Config is the immutable, validated form of Answers.
type Config struct {
	packageName        string
	packageFolder      string
	baseName           string
	serviceDescription string
	dockerRegistry     string
	dockerPrefix       string
	useSonar           bool
	useScmAndDm        bool
	databaseType       DatabaseType
	prodDatabaseType   ProdDatabaseType
	devDatabaseType    DevDatabaseType
}

var (
	javaIdent = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	baseIdent = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)
)

var javaKeywords = map[string]struct{}{
	"abstract": {}, "assert": {}, "boolean": {}, "break": {}, "byte": {}, "case": {}, "catch": {},
	"char": {}, "class": {}, "const": {}, "continue": {}, "default": {}, "do": {}, "double": {},
	"else": {}, "enum": {}, "extends": {}, "false": {}, "final": {}, "finally": {}, "float": {},
	"for": {}, "goto": {}, "if": {}, "implements": {}, "import": {}, "instanceof": {}, "int": {},
	"interface": {}, "long": {}, "native": {}, "new": {}, "null": {}, "package": {}, "private": {},
	"protected": {}, "public": {}, "return": {}, "short": {}, "static": {}, "strictfp": {},
	"super": {}, "switch": {}, "synchronized": {}, "this": {}, "throw": {}, "throws": {},
	"transient": {}, "true": {}, "try": {}, "void": {}, "volatile": {}, "while": {},
}

// New validates a and derives the package folder.
func New(a Answers) (Config, error) {
	pkg := strings.TrimSpace(a.PackageName)
	if err := validatePackageName(pkg); err != nil {
		return Config{}, err
	}
	base := strings.TrimSpace(a.BaseName)
	if base == "" {
		return Config{}, invalid("baseName is empty")
	}
	if !baseIdent.MatchString(base) {
		return Config{}, invalid("baseName %q may only contain letters, digits, '.', '_' and '-'", base)
	}

	db := DatabaseType(strings.TrimSpace(a.DatabaseType))
	if db == "" {
		db = DatabaseNone
	}
	prod := ProdDatabaseType(strings.TrimSpace(a.ProdDatabaseType))
	dev := DevDatabaseType(strings.TrimSpace(a.DevDatabaseType))

	switch db {
	case DatabaseSQL:
		if prod == "" {
			return Config{}, invalid("prodDatabaseType is required when databaseType is sql")
		}
		if !oneOf(string(prod), ProdDatabaseTypes) {
			return Config{}, invalid("unknown prodDatabaseType %q (want one of %s)", prod, strings.Join(ProdDatabaseTypes, ", "))
		}
		if dev == "" {
			return Config{}, invalid("devDatabaseType is required when databaseType is sql")
		}
		if !oneOf(string(dev), DevDatabaseTypes) {
			return Config{}, invalid("unknown devDatabaseType %q (want one of %s)", dev, strings.Join(DevDatabaseTypes, ", "))
		}
	case DatabaseNone, DatabaseMongoDB:
		if prod != "" {
			return Config{}, invalid("prodDatabaseType %q set while databaseType is %s", prod, db)
		}
		if dev != "" {
			return Config{}, invalid("devDatabaseType %q set while databaseType is %s", dev, db)
		}
	default:
		return Config{}, invalid("unknown databaseType %q (want one of %s)", db, strings.Join(DatabaseTypes, ", "))
	}

	return Config{
		packageName:        pkg,
		packageFolder:      strings.ReplaceAll(pkg, ".", string(filepath.Separator)),
		baseName:           base,
		serviceDescription: a.ServiceDescription,
		dockerRegistry:     strings.TrimSpace(a.DockerRegistry),
		dockerPrefix:       strings.TrimSpace(a.DockerPrefix),
		useSonar:           a.UseSonar,
		useScmAndDm:        a.UseScmAndDm,
		databaseType:       db,
		prodDatabaseType:   prod,
		devDatabaseType:    dev,
	}, nil
}

func validatePackageName(pkg string) error {
	if pkg == "" {
		return invalid("packageName is empty")
	}
	for _, seg := range strings.Split(pkg, ".") {
		if seg == "" {
			return invalid("packageName %q has an empty segment", pkg)
		}
		if !javaIdent.MatchString(seg) {
			return invalid("packageName %q: segment %q is not a valid identifier", pkg, seg)
		}
		if _, ok := javaKeywords[seg]; ok {
			return invalid("packageName %q: segment %q is a reserved word", pkg, seg)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errdef.New(errdef.CodeInvalidConfiguration, format, args...)
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func (c Config) PackageName() string                { return c.packageName }
func (c Config) PackageFolder() string              { return c.packageFolder }
func (c Config) BaseName() string                   { return c.baseName }
func (c Config) ServiceDescription() string         { return c.serviceDescription }
func (c Config) DockerRegistry() string             { return c.dockerRegistry }
func (c Config) DockerPrefix() string               { return c.dockerPrefix }
func (c Config) UseSonar() bool                     { return c.useSonar }
func (c Config) UseScmAndDm() bool                  { return c.useScmAndDm }
func (c Config) DatabaseType() DatabaseType         { return c.databaseType }
func (c Config) ProdDatabaseType() ProdDatabaseType { return c.prodDatabaseType }
func (c Config) DevDatabaseType() DevDatabaseType   { return c.devDatabaseType }

// PackagePath is the package folder with forward slashes, the form used in
// plan destinations.
func (c Config) PackagePath() string {
	return strings.ReplaceAll(c.packageName, ".", "/")
}

// DockerEnabled reports whether enough docker configuration was given to
// emit docker descriptors.
func (c Config) DockerEnabled() bool {
	return c.dockerPrefix != ""
}

// DockerImage is the image name used in docker descriptors and the build
// descriptor, e.g. "registry.local/example/foo-rest".
func (c Config) DockerImage() string {
	parts := make([]string, 0, 3)
	if c.dockerRegistry != "" {
		parts = append(parts, strings.TrimSuffix(c.dockerRegistry, "/"))
	}
	if c.dockerPrefix != "" {
		parts = append(parts, c.dockerPrefix)
	}
	parts = append(parts, c.baseName+"-rest")
	return strings.Join(parts, "/")
}

// Answers converts c back into answers, e.g. for writing an answers file.
func (c Config) Answers() Answers {
	return Answers{
		PackageName:        c.packageName,
		BaseName:           c.baseName,
		ServiceDescription: c.serviceDescription,
		DockerRegistry:     c.dockerRegistry,
		DockerPrefix:       c.dockerPrefix,
		UseSonar:           c.useSonar,
		UseScmAndDm:        c.useScmAndDm,
		DatabaseType:       string(c.databaseType),
		ProdDatabaseType:   string(c.prodDatabaseType),
		DevDatabaseType:    string(c.devDatabaseType),
	}
}

// Vars returns the variables visible to templates. Keys keep the camelCase
// names used throughout the template corpus.
func (c Config) Vars() map[string]any {
	return map[string]any{
		"packageName":        c.packageName,
		"packageFolder":      c.PackagePath(),
		"baseName":           c.baseName,
		"serviceDescription": c.serviceDescription,
		"dockerRegistry":     c.dockerRegistry,
		"dockerPrefix":       c.dockerPrefix,
		"dockerImage":        c.DockerImage(),
		"useSonar":           c.useSonar,
		"useScmAndDm":        c.useScmAndDm,
		"databaseType":       string(c.databaseType),
		"prodDatabaseType":   string(c.prodDatabaseType),
		"devDatabaseType":    string(c.devDatabaseType),
	}
}

// Field returns the string form of a named answer; plan clauses match on it.
func (c Config) Field(name string) string {
	switch name {
	case "packageName":
		return c.packageName
	case "baseName":
		return c.baseName
	case "serviceDescription":
		return c.serviceDescription
	case "dockerRegistry":
		return c.dockerRegistry
	case "dockerPrefix":
		return c.dockerPrefix
	case "useSonar":
		return boolString(c.useSonar)
	case "useScmAndDm":
		return boolString(c.useScmAndDm)
	case "databaseType":
		return string(c.databaseType)
	case "prodDatabaseType":
		return string(c.prodDatabaseType)
	case "devDatabaseType":
		return string(c.devDatabaseType)
	}
	return ""
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
