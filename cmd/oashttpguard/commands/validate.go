package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/erraggy/oashttpguard/internal/cliutil"
	"github.com/erraggy/oashttpguard/oasload"
	"github.com/erraggy/oashttpguard/oastree"
	"github.com/erraggy/oashttpguard/reqguard"
	"github.com/erraggy/oashttpguard/schemabuild"
	"github.com/erraggy/oashttpguard/specversion"
)

// headerFlag is a custom flag type for collecting repeated "Name: value" pairs.
type headerFlag map[string]string

func (h *headerFlag) String() string {
	if h == nil {
		return ""
	}
	var parts []string
	for k, v := range *h {
		parts = append(parts, k+": "+v)
	}
	return strings.Join(parts, ", ")
}

func (h *headerFlag) Set(value string) error {
	name, val, ok := strings.Cut(value, ":")
	if !ok {
		return fmt.Errorf("expected Name:value, got %q", value)
	}
	if *h == nil {
		*h = make(headerFlag)
	}
	(*h)[strings.TrimSpace(name)] = strings.TrimSpace(val)
	return nil
}

// stringSliceFlag is a custom flag type for collecting multiple string values.
type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(*s, ",")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// ValidateFlags contains flags for the validate command.
type ValidateFlags struct {
	Method      string
	Path        string
	Query       string
	Headers     headerFlag
	Cookies     headerFlag
	Body        string
	ContentType string
	Strict      bool
	Scopes      stringSliceFlag
	Format      string
	Output      string
}

// SetupValidateFlags creates and configures a FlagSet for the validate command.
func SetupValidateFlags() (*flag.FlagSet, *ValidateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags := &ValidateFlags{}

	fs.StringVar(&flags.Method, "method", "", "HTTP method of the request to validate, e.g. GET")
	fs.StringVar(&flags.Path, "path", "", "concrete request path, e.g. /pets/42")
	fs.StringVar(&flags.Query, "query", "", "raw query string, without a leading ?")
	fs.Var(&flags.Headers, "header", "request header as Name:value (repeatable)")
	fs.Var(&flags.Cookies, "cookie", "request cookie as name:value (repeatable)")
	fs.StringVar(&flags.Body, "body", "", "request body; prefix with @ to read from a file, or - to read from stdin")
	fs.StringVar(&flags.ContentType, "content-type", "", "Content-Type of the body, if not supplied via -header")
	fs.BoolVar(&flags.Strict, "strict", false, "reject query, header, and cookie values not declared by the operation")
	fs.Var(&flags.Scopes, "scope", "an OAuth2/OpenID scope granted to the caller (repeatable)")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Output, "o", "", "write the report to this file instead of stdout")

	fs.Usage = func() {
		out := fs.Output()
		cliutil.Writef(out, "Usage: oashttpguard validate [flags] <spec-file|url|->\n\n")
		cliutil.Writef(out, "Validate an HTTP request against the matching operation in an OpenAPI document.\n\n")
		cliutil.Writef(out, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(out, "\nExamples:\n")
		cliutil.Writef(out, "  oashttpguard validate -method GET -path /pets/42 openapi.yaml\n")
		cliutil.Writef(out, "  oashttpguard validate -method POST -path /pets -body @pet.json -content-type application/json openapi.yaml\n")
		cliutil.Writef(out, "  oashttpguard validate -method GET -path /pets -scope pets:read -strict openapi.yaml\n")
		cliutil.Writef(out, "\nExit Codes:\n")
		cliutil.Writef(out, "  0    The request is valid\n")
		cliutil.Writef(out, "  1    The request is invalid, or validation could not be performed\n")
	}

	return fs, flags
}

// issueReport is the JSON/YAML-serializable shape of a validation outcome.
type issueReport struct {
	Valid        bool          `json:"valid" yaml:"valid"`
	OperationID  string        `json:"operation_id,omitempty" yaml:"operation_id,omitempty"`
	Method       string        `json:"method,omitempty" yaml:"method,omitempty"`
	PathTemplate string        `json:"path_template,omitempty" yaml:"path_template,omitempty"`
	IssueCount   int           `json:"issue_count" yaml:"issue_count"`
	Issues       []issueDetail `json:"issues,omitempty" yaml:"issues,omitempty"`
}

type issueDetail struct {
	Pointer  string `json:"pointer" yaml:"pointer"`
	Message  string `json:"message" yaml:"message"`
	Severity string `json:"severity" yaml:"severity"`
}

// HandleValidate executes the validate command.
func HandleValidate(args []string) error {
	fs, flags := SetupValidateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("validate command requires exactly one specification file path, URL, or '-' for stdin")
	}
	if flags.Method == "" || flags.Path == "" {
		return fmt.Errorf("validate command requires -method and -path")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	specPath := fs.Arg(0)
	tr, err := loadSpec(specPath)
	if err != nil {
		return fmt.Errorf("loading specification: %w", err)
	}

	draft, _, err := specversion.DetectFromDocument(tr.Root())
	if err != nil {
		return fmt.Errorf("detecting specification version: %w", err)
	}

	body, err := resolveBody(flags.Body)
	if err != nil {
		return fmt.Errorf("reading body: %w", err)
	}

	header := make(http.Header, len(flags.Headers))
	for name, value := range flags.Headers {
		header.Set(name, value)
	}
	contentType := flags.ContentType
	if contentType == "" {
		contentType = header.Get("Content-Type")
	}

	req := reqguard.Request{
		Method:      flags.Method,
		Path:        flags.Path,
		RawQuery:    flags.Query,
		Header:      header,
		ContentType: contentType,
		HasBody:     body != nil,
	}
	if body != nil {
		req.Body = body
	}
	for name, value := range flags.Cookies {
		req.Cookies = append(req.Cookies, &http.Cookie{Name: name, Value: value})
	}

	scopes := make(map[string]struct{}, len(flags.Scopes))
	for _, s := range flags.Scopes {
		scopes[s] = struct{}{}
	}

	factory := schemabuild.NewFactory(tr, draft)
	sensitive := schemabuild.NewFactory(tr, draft, schemabuild.WithRedact())
	var opts []reqguard.Option
	if flags.Strict {
		opts = append(opts, reqguard.WithStrictMode())
	}
	orch := reqguard.NewOrchestrator(tr, draft, factory, sensitive, opts...)

	startTime := time.Now()
	result, verr := orch.Validate(context.Background(), req, scopes)
	elapsed := time.Since(startTime)
	if verr != nil && result == nil {
		return fmt.Errorf("resolving operation: %w", verr)
	}

	report := buildReport(result)

	if flags.Format == FormatJSON || flags.Format == FormatYAML {
		if err := OutputStructured(report, flags.Format, flags.Output); err != nil {
			return err
		}
		if !report.Valid {
			os.Exit(1)
		}
		return nil
	}

	printTextReport(specPath, draft, report, elapsed)
	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func buildReport(result *reqguard.Result) issueReport {
	report := issueReport{}
	if result.Operation != nil {
		report.Method = result.Operation.Method
		report.PathTemplate = result.Operation.Template
		if id, ok := result.Operation.Node["operationId"].(string); ok {
			report.OperationID = id
		}
	}
	report.Valid = !result.Issues.HasErrors()
	report.IssueCount = len(result.Issues)
	for _, issue := range result.Issues {
		report.Issues = append(report.Issues, issueDetail{
			Pointer:  issue.Pointer,
			Message:  issue.Error(),
			Severity: issue.Severity.String(),
		})
	}
	return report
}

func printTextReport(specPath string, draft specversion.Draft, report issueReport, elapsed time.Duration) {
	cliutil.Writef(os.Stderr, "oashttpguard request validator\n")
	cliutil.Writef(os.Stderr, "===============================\n\n")
	cliutil.Writef(os.Stderr, "Specification: %s\n", FormatSpecPath(specPath))
	cliutil.Writef(os.Stderr, "OAS Version: %s\n", draft)
	if report.OperationID != "" {
		cliutil.Writef(os.Stderr, "Operation: %s %s (%s)\n", report.Method, report.PathTemplate, report.OperationID)
	}
	cliutil.Writef(os.Stderr, "Validation Time: %v\n\n", elapsed)

	if len(report.Issues) > 0 {
		cliutil.Writef(os.Stderr, "Issues (%d):\n", report.IssueCount)
		for _, issue := range report.Issues {
			cliutil.Writef(os.Stderr, "  [%s] %s: %s\n", issue.Severity, issue.Pointer, issue.Message)
		}
		cliutil.Writef(os.Stderr, "\n")
	}

	if report.Valid {
		cliutil.Writef(os.Stderr, "✓ Request is valid\n")
	} else {
		cliutil.Writef(os.Stderr, "✗ Request is invalid\n")
	}
}

// loadSpec loads an OpenAPI document from a file path, URL, or stdin ("-").
func loadSpec(specPath string) (*oastree.Traverser, error) {
	if specPath == StdinFilePath {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		return oasload.Load(oasload.WithBytes(data))
	}
	if strings.HasPrefix(specPath, "http://") || strings.HasPrefix(specPath, "https://") {
		return fetchAndLoad(specPath)
	}
	return oasload.Load(oasload.WithFilePath(specPath))
}

// fetchAndLoad fetches an OpenAPI document over HTTP(S). Unlike the MCP
// server, a CLI invocation's URL is chosen directly by the operator running
// the command, so no SSRF guard is applied here.
func fetchAndLoad(url string) (*oastree.Traverser, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return oasload.Load(oasload.WithBytes(data))
}

// resolveBody returns the literal body, the contents of a file referenced by
// "@path", stdin contents for "-", or nil if body is empty.
func resolveBody(body string) ([]byte, error) {
	switch {
	case body == "":
		return nil, nil
	case body == StdinFilePath:
		return io.ReadAll(os.Stdin)
	case strings.HasPrefix(body, "@"):
		return os.ReadFile(body[1:])
	default:
		return []byte(body), nil
	}
}
