package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/llm"
	"github.com/alexanderramin/scormbuilder/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// modelServer answers /api/generate with the test course in a code fence.
func modelServer(t *testing.T, sawPrompt *string) *httptest.Server {
	t.Helper()
	course, err := json.Marshal(testutil.NewTestCourse())
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		*sawPrompt = req.Prompt
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]string{
			"model":    "llama3.2",
			"response": "Here you go:\n```json\n" + string(course) + "\n```",
		}))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPromptCmd_PrintsPrompt(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "seed", "--title", "Printed", "--topic", "Ladders")

	out, errOut, err := executeCmd(t, app, "prompt")
	require.NoError(t, err)
	assert.Contains(t, out, "Printed")
	assert.Contains(t, out, "Ladders")
	assert.Contains(t, errOut, "import-json")

	p, err := app.Projects.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, domain.StepJSON, p.CurrentStep)
}

func TestPromptCmd_Schema(t *testing.T) {
	app := testApp(t)
	out := mustExecute(t, app, "prompt", "--schema")
	assert.True(t, json.Valid([]byte(strings.TrimSpace(out))), out)
}

func TestPromptCmd_GenerateImportsDraft(t *testing.T) {
	app := testApp(t)
	var sawPrompt string
	srv := modelServer(t, &sawPrompt)
	cfg := llm.DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = srv.URL
	app.Drafts = llm.NewOllamaClient(cfg, nil)

	mustExecute(t, app, "seed", "--title", "Drafted", "--topic", "PPE")
	saved := filepath.Join(t.TempDir(), "draft.json")
	out := mustExecute(t, app, "prompt", "--generate", "--save-json", saved)
	assert.Contains(t, out, "Drafted and imported 2 topics")
	assert.Contains(t, sawPrompt, "Drafted")

	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	p, err := app.Projects.Resolve(context.Background(), "Drafted")
	require.NoError(t, err)
	assert.Equal(t, domain.StepMedia, p.CurrentStep)
}

func TestPromptCmd_GenerateDisabled(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "seed", "--title", "Offline", "--topic", "PPE")
	_, _, err := executeCmd(t, app, "prompt", "--generate")
	assert.ErrorIs(t, err, llm.ErrDisabled)
}
