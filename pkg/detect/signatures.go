package detect

// Category groups frameworks by the role they play in a project.
type Category string

const (
	CategoryFrontend Category = "frontend"
	CategoryBackend  Category = "backend"
	CategoryStyling  Category = "styling"
	CategoryTesting  Category = "testing"
	CategoryBuild    Category = "build"
	CategoryDevOps   Category = "devops"
	CategoryDatabase Category = "database"
	CategoryUtility  Category = "utility"
)

// IndicatorKind selects what an indicator pattern is tested against.
type IndicatorKind string

const (
	IndicatorDependency IndicatorKind = "dependency"
	IndicatorFile       IndicatorKind = "file"
	IndicatorDirectory  IndicatorKind = "directory"
)

// Indicator is one piece of evidence for a framework.
type Indicator struct {
	Kind    IndicatorKind
	Pattern string
}

// Signature describes how to recognize one framework or tool.
type Signature struct {
	Name       string
	Category   Category
	Indicators []Indicator
}

func dep(p string) Indicator  { return Indicator{IndicatorDependency, p} }
func file(p string) Indicator { return Indicator{IndicatorFile, p} }
func dir(p string) Indicator  { return Indicator{IndicatorDirectory, p} }

// signatures is ordered; equal-confidence detections keep this order.
// Dependency indicators come first in every entry.
var signatures = []Signature{
	{"React", CategoryFrontend, []Indicator{dep("react"), file("jsx"), file("tsx")}},
	{"Next.js", CategoryFrontend, []Indicator{dep("next"), file("next.config"), dir("app")}},
	{"Vue", CategoryFrontend, []Indicator{dep("vue"), file(".vue")}},
	{"Nuxt", CategoryFrontend, []Indicator{dep("nuxt"), file("nuxt.config")}},
	{"Angular", CategoryFrontend, []Indicator{dep("@angular/core"), file("angular.json")}},
	{"Svelte", CategoryFrontend, []Indicator{dep("svelte"), file(".svelte")}},

	{"Express", CategoryBackend, []Indicator{dep("express")}},
	{"Fastify", CategoryBackend, []Indicator{dep("fastify")}},
	{"NestJS", CategoryBackend, []Indicator{dep("@nestjs/core")}},
	{"Spring Boot", CategoryBackend, []Indicator{dep("spring-boot")}},
	{"Django", CategoryBackend, []Indicator{dep("django"), file("manage.py")}},
	{"Flask", CategoryBackend, []Indicator{dep("flask")}},
	{"FastAPI", CategoryBackend, []Indicator{dep("fastapi")}},
	{"Ruby on Rails", CategoryBackend, []Indicator{dep("rails"), dir("app/controllers")}},
	{"Laravel", CategoryBackend, []Indicator{dep("laravel/framework"), file("artisan")}},
	{"Actix Web", CategoryBackend, []Indicator{dep("actix-web")}},
	{"Gin", CategoryBackend, []Indicator{dep("github.com/gin-gonic/gin")}},

	{"TailwindCSS", CategoryStyling, []Indicator{dep("tailwindcss"), file("tailwind.config")}},
	{"Sass/SCSS", CategoryStyling, []Indicator{dep("sass"), file(".scss")}},
	{"Styled Components", CategoryStyling, []Indicator{dep("styled-components")}},

	{"Jest", CategoryTesting, []Indicator{dep("jest"), file("jest.config")}},
	{"Vitest", CategoryTesting, []Indicator{dep("vitest")}},
	{"Mocha", CategoryTesting, []Indicator{dep("mocha")}},
	{"Pytest", CategoryTesting, []Indicator{dep("pytest")}},
	{"JUnit", CategoryTesting, []Indicator{dep("junit")}},
	{"Cypress", CategoryTesting, []Indicator{dep("cypress"), dir("cypress")}},
	{"Playwright", CategoryTesting, []Indicator{dep("playwright")}},

	{"Webpack", CategoryBuild, []Indicator{dep("webpack"), file("webpack.config")}},
	{"Vite", CategoryBuild, []Indicator{dep("vite"), file("vite.config")}},
	{"Rollup", CategoryBuild, []Indicator{dep("rollup")}},
	{"esbuild", CategoryBuild, []Indicator{dep("esbuild")}},
	{"Turbopack", CategoryBuild, []Indicator{file("turbo.json")}},

	{"Docker", CategoryDevOps, []Indicator{file("Dockerfile"), file("docker-compose")}},
	{"GitHub Actions", CategoryDevOps, []Indicator{dir(".github/workflows")}},

	{"PostgreSQL", CategoryDatabase, []Indicator{dep("pg"), dep("psycopg")}},
	{"MongoDB", CategoryDatabase, []Indicator{dep("mongoose"), dep("mongodb")}},
	{"Prisma", CategoryDatabase, []Indicator{dep("prisma"), file("schema.prisma")}},
	{"TypeORM", CategoryDatabase, []Indicator{dep("typeorm")}},
	{"SQLAlchemy", CategoryDatabase, []Indicator{dep("sqlalchemy")}},
	{"Redis", CategoryDatabase, []Indicator{dep("redis"), dep("ioredis")}},

	{"TypeScript", CategoryUtility, []Indicator{dep("typescript"), file("tsconfig.json")}},
	{"ESLint", CategoryUtility, []Indicator{dep("eslint"), file(".eslintrc")}},
	{"Prettier", CategoryUtility, []Indicator{dep("prettier"), file(".prettierrc")}},
}

// Signatures returns a copy of the detection table in declaration order.
func Signatures() []Signature {
	out := make([]Signature, len(signatures))
	copy(out, signatures)
	return out
}
