package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gitmaster/pkg/analysis"
	"github.com/matzehuels/gitmaster/pkg/cache"
	ghapi "github.com/matzehuels/gitmaster/pkg/integrations/github"
)

// fixtureDir writes a small React + Express project.
func fixtureDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"README.md":           "# Fixture\n",
		"package.json":        `{"devDependencies": {"typescript": "5.0.0"}}`,
		"web/package.json":    `{"dependencies": {"react": "18.2.0"}, "devDependencies": {"vite": "5.0.0"}}`,
		"web/src/main.tsx":    "export {}",
		"server/package.json": `{"dependencies": {"express": "4.18.2"}}`,
		"server/index.js":     "module.exports = {}",
	}
	for p, content := range files {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func setupServerClient(t *testing.T) (*mcp.ClientSession, *Service) {
	t.Helper()

	lru, err := cache.NewLRUCache(8)
	require.NoError(t, err)
	svc := NewService(analysis.NewRunner(lru, nil, nil, nil), ghapi.NewClient(""), analysis.Options{}, nil)
	server := NewServer(svc, "test")

	st, ct := mcp.NewInMemoryTransports()
	ctx := context.Background()

	_, err = server.Connect(ctx, st, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })

	return session, svc
}

func TestListTools(t *testing.T) {
	session, _ := setupServerClient(t)

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
	}
	sort.Strings(names)
	assert.Equal(t, []string{"analyze_directory", "analyze_repository", "detect_frameworks"}, names)
}

func TestAnalyzeDirectoryTool(t *testing.T) {
	session, _ := setupServerClient(t)
	ctx := context.Background()
	root := fixtureDir(t)

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "analyze_directory",
		Arguments: AnalyzeDirectoryInput{Path: root},
	})
	require.NoError(t, err)
	require.False(t, result.IsError, "analyze_directory should succeed")
	require.NotNil(t, result.StructuredContent)

	raw, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)
	var out AnalysisOutput
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, "Full-Stack Application", out.Insight.ProjectType)
	assert.Equal(t, 4, out.Dependencies.TotalCount)
	assert.Len(t, out.Dependencies.Manifests, 3)
	assert.Contains(t, out.Architecture.External, "npm deps (4)")
	assert.Contains(t, out.Summary, "Fixture")
	assert.False(t, out.Cached)

	again, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "analyze_directory",
		Arguments: AnalyzeDirectoryInput{Path: root},
	})
	require.NoError(t, err)
	raw, err = json.Marshal(again.StructuredContent)
	require.NoError(t, err)
	var cached AnalysisOutput
	require.NoError(t, json.Unmarshal(raw, &cached))
	assert.True(t, cached.Cached)
	assert.Equal(t, out.ID, cached.ID)
}

func TestDetectFrameworksTool(t *testing.T) {
	session, _ := setupServerClient(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "detect_frameworks",
		Arguments: DetectFrameworksInput{Path: fixtureDir(t)},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	raw, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)
	var out DetectFrameworksOutput
	require.NoError(t, json.Unmarshal(raw, &out))

	names := make([]string, len(out.Frameworks))
	for i, fw := range out.Frameworks {
		names[i] = fw.Name
	}
	assert.Contains(t, names, "React")
	assert.Contains(t, names, "Express")
	assert.Contains(t, out.BuildTools, "Vite")
}

func TestHandlers_Errors(t *testing.T) {
	_, svc := setupServerClient(t)
	ctx := context.Background()

	t.Run("empty path", func(t *testing.T) {
		_, _, err := svc.AnalyzeDirectory(ctx, nil, AnalyzeDirectoryInput{})
		assert.Error(t, err)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, _, err := svc.DetectFrameworks(ctx, nil, DetectFrameworksInput{Path: filepath.Join(t.TempDir(), "nope")})
		assert.Error(t, err)
	})

	t.Run("invalid repository url", func(t *testing.T) {
		_, _, err := svc.AnalyzeRepository(ctx, nil, AnalyzeRepositoryInput{URL: "just-one-part"})
		assert.Error(t, err)
	})
}

func TestAnalyzeRepositoryTool_ErrorResult(t *testing.T) {
	session, _ := setupServerClient(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "analyze_repository",
		Arguments: AnalyzeRepositoryInput{URL: ""},
	})
	if err != nil {
		return
	}
	require.NotNil(t, result)
	assert.True(t, result.IsError, "an empty url should produce an error result")
}
