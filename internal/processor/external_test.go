package processor

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ssgerrors "github.com/geocine/geossg/internal/errors"
	"github.com/geocine/geossg/internal/generator"
	"github.com/geocine/geossg/internal/metadata"
)

// TestHelperProcess is not a real test. It stands in for an external
// processor command when GEOSSG_HELPER_PROCESS names a behavior.
func TestHelperProcess(t *testing.T) {
	mode := os.Getenv("GEOSSG_HELPER_PROCESS")
	if mode == "" {
		return
	}
	var req ExternalRequest
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	switch mode {
	case "stamp":
		doc := strings.Replace(req.Document, "</body>",
			fmt.Sprintf("<footer>%s %s %s %v</footer></body>", req.Processor, req.Path, req.Outputs["title_tag"], req.Options["level"]), 1)
		_ = json.NewEncoder(os.Stdout).Encode(ExternalResponse{Document: doc})
	case "fail":
		fmt.Fprintln(os.Stderr, "boom")
		os.Exit(3)
	case "garbage":
		fmt.Print("not json")
	case "sleep":
		time.Sleep(10 * time.Second)
	}
	os.Exit(0)
}

func helperProcessor(t *testing.T, mode string) *ExternalProcessor {
	t.Helper()
	t.Setenv("GEOSSG_HELPER_PROCESS", mode)
	return &ExternalProcessor{
		ProcessorName: "stamp",
		Command:       os.Args[0] + " -test.run=^TestHelperProcess$",
		Options:       map[string]any{"level": 2},
	}
}

func TestExternalProcessor(t *testing.T) {
	p := helperProcessor(t, "stamp")
	md := metadata.Metadata{"path": "/about"}
	outputs := generator.Outputs{"title_tag": "<title>About</title>"}

	out, err := p.Process("<html><body><p>x</p></body></html>", md, outputs, "")
	require.NoError(t, err)
	assert.Equal(t, "<html><body><p>x</p><footer>stamp /about <title>About</title> 2</footer></body></html>", out)
}

func TestExternalProcessorFailures(t *testing.T) {
	tests := []struct {
		mode    string
		timeout time.Duration
		wantErr string
	}{
		{mode: "fail", wantErr: "boom"},
		{mode: "garbage", wantErr: "invalid JSON"},
		{mode: "sleep", timeout: 100 * time.Millisecond, wantErr: "failed"},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			p := helperProcessor(t, tt.mode)
			p.Timeout = tt.timeout
			chain := NewChain(p)

			_, err := chain.Process("<body></body>", metadata.Metadata{"path": "/"}, nil, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, ssgerrors.ErrTransformFailure)
			assert.Equal(t, "stamp", ssgerrors.ComponentOf(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExternalProcessorEmptyCommand(t *testing.T) {
	_, err := (&ExternalProcessor{ProcessorName: "x"}).Process("", nil, nil, "")
	assert.EqualError(t, err, "empty command")
}
