package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/geocine/geossg/internal/generator"
	"github.com/geocine/geossg/internal/metadata"
)

// DefaultExternalTimeout bounds one run of an external processor.
const DefaultExternalTimeout = 30 * time.Second

// ExternalRequest is written as JSON to an external processor's stdin.
type ExternalRequest struct {
	Processor string            `json:"processor"`
	Path      string            `json:"path"`
	Document  string            `json:"document"`
	Metadata  map[string]string `json:"metadata"`
	Outputs   map[string]string `json:"outputs"`
	Content   string            `json:"content"`
	Options   map[string]any    `json:"options,omitempty"`
}

// ExternalResponse is read as JSON from an external processor's stdout.
type ExternalResponse struct {
	Document string `json:"document"`
}

// ExternalProcessor hands the document to a command and takes back the
// document it returns. The command is split on whitespace and runs in Dir.
// Failures are wrapped by the Chain like any other processor's.
type ExternalProcessor struct {
	ProcessorName string
	Command       string
	Dir           string
	Timeout       time.Duration
	Options       map[string]any
}

func (e *ExternalProcessor) Name() string { return e.ProcessorName }

func (e *ExternalProcessor) Process(document string, md metadata.Metadata, outputs generator.Outputs, content string) (string, error) {
	parts := strings.Fields(e.Command)
	if len(parts) == 0 {
		return "", fmt.Errorf("empty command")
	}

	input, err := json.Marshal(ExternalRequest{
		Processor: e.Name(),
		Path:      md.Get("path"),
		Document:  document,
		Metadata:  md,
		Outputs:   outputs,
		Content:   content,
		Options:   e.Options,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultExternalTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Dir = e.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return "", fmt.Errorf("command %q failed: %w", e.Command, err)
	}

	var resp ExternalResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return "", fmt.Errorf("command %q returned invalid JSON: %w", e.Command, err)
	}
	return resp.Document, nil
}
