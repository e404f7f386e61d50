package plan

import (
	"path"

	"shireesh.com/bootgen/internal/config"
	"shireesh.com/bootgen/internal/render"
)

// Module is one generated sub-project, or the root project.
type Module int

const (
	ModuleRest Module = iota
	ModuleModel
	ModuleIT
	ModuleRoot
)

var modules = []Module{ModuleRest, ModuleModel, ModuleIT}

// TemplateRoot is the key prefix holding the module's templates.
func (m Module) TemplateRoot() string {
	switch m {
	case ModuleRest:
		return "rest"
	case ModuleModel:
		return "model"
	case ModuleIT:
		return "it"
	default:
		return "root"
	}
}

// Dir is the module's destination directory; "." for the root project.
func (m Module) Dir(baseName string) string {
	switch m {
	case ModuleRest:
		return baseName + "-rest"
	case ModuleModel:
		return baseName + "-model"
	case ModuleIT:
		return baseName + "-it"
	default:
		return "."
	}
}

// Base says what a rule's Dest is relative to.
type Base int

const (
	BaseModule      Base = iota // module root
	BaseMainPackage             // src/main/java/<packageFolder>
	BaseTestPackage             // src/test/java/<packageFolder>
)

type Op int

const (
	OpEq   Op = iota // field equals Value
	OpSet            // field is not empty
	OpTrue           // boolean field is true
)

// Clause is one condition on a configuration field.
type Clause struct {
	Field string
	Op    Op
	Value string
}

func Eq(field, value string) Clause { return Clause{Field: field, Op: OpEq, Value: value} }
func Set(field string) Clause        { return Clause{Field: field, Op: OpSet} }
func True(field string) Clause       { return Clause{Field: field, Op: OpTrue} }

func (c Clause) Holds(cfg config.Config) bool {
	v := cfg.Field(c.Field)
	switch c.Op {
	case OpEq:
		return v == c.Value
	case OpSet:
		return v != ""
	case OpTrue:
		return v == "true"
	}
	return false
}

// Rule maps a template to a destination under a set of conditions. A rule
// without conditions is required: its template must exist.
type Rule struct {
	Module Module
	Key    string // relative to Module.TemplateRoot()
	Base   Base
	Dest   string // relative to Base
	Mode   Mode
	Syntax render.Syntax
	When   []Clause
	Check  Check
}

// TemplateKey is the full store key of the rule's template.
func (r Rule) TemplateKey() string {
	return r.Module.TemplateRoot() + "/" + r.Key
}

func (r Rule) Required() bool { return len(r.When) == 0 }

// Specificity is the number of configuration conditions the rule keys on.
func (r Rule) Specificity() int { return len(r.When) }

func (r Rule) Matches(cfg config.Config) bool {
	for _, c := range r.When {
		if !c.Holds(cfg) {
			return false
		}
	}
	return true
}

// Destination resolves the rule's output path for cfg.
func (r Rule) Destination(cfg config.Config) string {
	dir := r.Module.Dir(cfg.BaseName())
	switch r.Base {
	case BaseMainPackage:
		dir = path.Join(dir, "src/main/java", cfg.PackagePath())
	case BaseTestPackage:
		dir = path.Join(dir, "src/test/java", cfg.PackagePath())
	}
	return path.Join(dir, r.Dest)
}

const (
	javaMain  = "src/main/java/package/"
	javaTest  = "src/test/java/package/"
	resources = "src/main/resources/"
)

var (
	isSQL     = Eq("databaseType", string(config.DatabaseSQL))
	isMongo   = Eq("databaseType", string(config.DatabaseMongoDB))
	prodMySQL = Eq("prodDatabaseType", string(config.ProdMySQL))
	prodPG    = Eq("prodDatabaseType", string(config.ProdPostgreSQL))
	hasDocker = Set("dockerPrefix")
)

func java(m Module, base Base, key, dest string, when ...Clause) Rule {
	return Rule{Module: m, Key: key, Base: base, Dest: dest, Mode: ModeInterpolate, Syntax: render.SyntaxDefault, When: when}
}

func erb(m Module, key, dest string, when ...Clause) Rule {
	return Rule{Module: m, Key: key, Base: BaseModule, Dest: dest, Mode: ModeInterpolate, Syntax: render.SyntaxERB, When: when}
}

// DefaultRules is the rule table of a generated microservice.
func DefaultRules() []Rule {
	return []Rule{
		// rest: docker and resources
		java(ModuleRest, BaseModule, "src/main/docker/Dockerfile", "src/main/docker/Dockerfile", hasDocker),
		erb(ModuleRest, resources+"application.yml", resources+"application.yml"),
		erb(ModuleRest, resources+"bootstrap.yml", resources+"bootstrap.yml"),
		erb(ModuleRest, resources+"application-dev.yml", resources+"application-dev.yml", isSQL),
		erb(ModuleRest, resources+"application-prod-mysql.yml", resources+"application-prod.yml", isSQL, prodMySQL),
		erb(ModuleRest, resources+"application-prod-postgresql.yml", resources+"application-prod.yml", isSQL, prodPG),
		java(ModuleRest, BaseModule, resources+"db/migration/V1__init-mysql.sql", resources+"db/migration/V1__init.sql", isSQL, prodMySQL),
		{
			Module: ModuleRest, Key: resources + "db/migration/V1__init-postgresql.sql", Base: BaseModule,
			Dest: resources + "db/migration/V1__init.sql", Mode: ModeInterpolate, Syntax: render.SyntaxDefault,
			When: []Clause{isSQL, prodPG}, Check: CheckPostgreSQL,
		},

		// rest: tests
		java(ModuleRest, BaseTestPackage, javaTest+"rest/controller/HomeControllerTest.java", "rest/controller/HomeControllerTest.java"),
		java(ModuleRest, BaseTestPackage, javaTest+"core/package-info.java", "core/package-info.java"),

		// rest: sources
		java(ModuleRest, BaseMainPackage, javaMain+"Application.java", "Application.java"),
		java(ModuleRest, BaseMainPackage, javaMain+"config/ApplicationSettings.java", "config/ApplicationSettings.java"),
		java(ModuleRest, BaseMainPackage, javaMain+"config/SecurityConfig.java", "config/SecurityConfig.java"),
		java(ModuleRest, BaseMainPackage, javaMain+"config/CustomPermissionEvaluator.java", "config/CustomPermissionEvaluator.java"),
		java(ModuleRest, BaseMainPackage, javaMain+"config/DatabaseConfig.java", "config/DatabaseConfig.java", isSQL),
		java(ModuleRest, BaseMainPackage, javaMain+"config/MongoConfig.java", "config/MongoConfig.java", isMongo),
		java(ModuleRest, BaseMainPackage, javaMain+"rest/controller/HomeController.java", "rest/controller/HomeController.java"),
		java(ModuleRest, BaseMainPackage, javaMain+"rest/assembler/package-info.java", "rest/assembler/package-info.java"),
		java(ModuleRest, BaseMainPackage, javaMain+"rest/global/GlobalExceptionHandler.java", "rest/global/GlobalExceptionHandler.java"),
		java(ModuleRest, BaseMainPackage, javaMain+"core/package-info.java", "core/package-info.java"),
		erb(ModuleRest, "pom.xml", "pom.xml"),

		// model
		java(ModuleModel, BaseMainPackage, javaMain+"package-info.java", "model/package-info.java"),
		erb(ModuleModel, "pom.xml", "pom.xml"),

		// integration tests
		{
			Module: ModuleIT, Key: javaTest + "IntegrationTest.java", Base: BaseTestPackage,
			Dest: "it/IntegrationTest.java", Mode: ModeInterpolate, Syntax: render.SyntaxERB,
		},
		erb(ModuleIT, "pom.xml", "pom.xml"),
		{Module: ModuleIT, Key: "src/test/resources/mock1.json", Base: BaseModule, Dest: "src/test/resources/mock1.json", Mode: ModeLiteral},

		// root project
		erb(ModuleRoot, "pom.xml", "pom.xml"),
		{Module: ModuleRoot, Key: "gitignore", Base: BaseModule, Dest: ".gitignore", Mode: ModeLiteral},
	}
}
