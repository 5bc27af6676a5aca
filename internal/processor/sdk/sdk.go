// Package sdk helps write external processors in Go.
//
// An external processor reads one JSON request on stdin and writes the
// rewritten document as JSON on stdout:
//
//	func main() {
//		sdk.Main(func(req *processor.ExternalRequest) (string, error) {
//			return strings.ReplaceAll(req.Document, "TODAY", time.Now().Format("2006-01-02")), nil
//		})
//	}
//
// Register it in the site config:
//
//	[processors.today]
//	command = "go run ./tools/today"
package sdk

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/geocine/geossg/internal/processor"
)

// TransformFunc returns the new document for a request.
type TransformFunc func(req *processor.ExternalRequest) (string, error)

// ReadRequest decodes one request from r.
func ReadRequest(r io.Reader) (*processor.ExternalRequest, error) {
	var req processor.ExternalRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}
	return &req, nil
}

// WriteResponse encodes doc as the response on w.
func WriteResponse(w io.Writer, doc string) error {
	if err := json.NewEncoder(w).Encode(processor.ExternalResponse{Document: doc}); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// Run reads a request from in, applies fn and writes the response to out.
func Run(in io.Reader, out io.Writer, fn TransformFunc) error {
	req, err := ReadRequest(in)
	if err != nil {
		return err
	}
	doc, err := fn(req)
	if err != nil {
		return err
	}
	return WriteResponse(out, doc)
}

// Main runs fn over stdin and stdout, exiting non-zero with the error on
// stderr when anything fails.
func Main(fn TransformFunc) {
	if err := Run(os.Stdin, os.Stdout, fn); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
