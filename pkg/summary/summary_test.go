package summary

import (
	"testing"

	"github.com/matzehuels/gitmaster/pkg/detect"
	"github.com/matzehuels/gitmaster/pkg/insight"
	"github.com/matzehuels/gitmaster/pkg/repo"
)

func TestGenerate(t *testing.T) {
	react := detect.Framework{Name: "React", Category: detect.CategoryFrontend}
	express := detect.Framework{Name: "Express", Category: detect.CategoryBackend}
	fastify := detect.Framework{Name: "Fastify", Category: detect.CategoryBackend}
	prisma := detect.Framework{Name: "Prisma", Category: detect.CategoryDatabase}

	tests := []struct {
		name string
		in   Input
		want string
	}{
		{
			name: "bare",
			in: Input{
				Insight: insight.Insight{ProjectType: insight.TypeProject, Structure: insight.StructureSingle},
			},
			want: NoDescription + " It is a project with a single module structure, comprising 0 files and 0 dependencies.",
		},
		{
			name: "full",
			in: Input{
				Description: "A todo app.",
				Insight: insight.Insight{
					ProjectType: insight.TypeFullStack,
					Structure:   insight.StructureMonorepo,
					Frameworks:  []detect.Framework{react, express, fastify, prisma},
					HasTests:    true,
					HasDocker:   true,
				},
				FileCount:       42,
				DependencyCount: 7,
				Languages: []repo.LanguageStat{
					{Name: "TypeScript", Percentage: 70.5},
					{Name: "CSS", Percentage: 20},
					{Name: "HTML", Percentage: 9},
					{Name: "Shell", Percentage: 0.5},
				},
			},
			want: "A todo app. The project uses React on the frontend, and Express, Fastify on the backend, and Prisma for data storage." +
				" It is a full-stack application with a monorepo structure, comprising 42 files and 7 dependencies." +
				" Primary languages: TypeScript (70.5%), CSS (20%), HTML (9%)." +
				" The project includes a test suite, Docker support.",
		},
		{
			name: "database alone is not mentioned",
			in: Input{
				Description: "db",
				Insight: insight.Insight{
					ProjectType: insight.TypeProject,
					Structure:   insight.StructureSingle,
					Frameworks:  []detect.Framework{prisma},
					HasCI:       true,
					HasDocs:     true,
				},
			},
			want: "db It is a project with a single module structure, comprising 0 files and 0 dependencies." +
				" The project includes a CI/CD pipeline, documentation.",
		},
		{
			name: "frontend and backend",
			in: Input{
				Description: "x",
				Insight: insight.Insight{
					ProjectType: insight.TypeFullStack,
					Structure:   insight.StructureSingle,
					Frameworks:  []detect.Framework{react, express},
				},
			},
			want: "x The project uses React on the frontend, and Express on the backend." +
				" It is a full-stack application with a single module structure, comprising 0 files and 0 dependencies.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.in); got != tt.want {
				t.Errorf("Generate() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}
