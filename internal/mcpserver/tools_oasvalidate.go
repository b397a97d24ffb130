package mcpserver

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oashttpguard/reqguard"
	"github.com/erraggy/oashttpguard/schemabuild"
)

type oasValidateInput struct {
	Spec          specInput         `json:"spec"                     jsonschema:"The OpenAPI document to validate the request against"`
	Method        string            `json:"method"                   jsonschema:"HTTP method of the request, e.g. GET or POST"`
	Path          string            `json:"path"                     jsonschema:"Concrete request path, e.g. /pets/42 (not the path template)"`
	Query         string            `json:"query,omitempty"          jsonschema:"Raw query string, without a leading ?"`
	Headers       map[string]string `json:"headers,omitempty"        jsonschema:"Request headers, one value per name"`
	Cookies       map[string]string `json:"cookies,omitempty"        jsonschema:"Request cookies, one value per name"`
	Body          string            `json:"body,omitempty"           jsonschema:"Raw request body"`
	ContentType   string            `json:"content_type,omitempty"   jsonschema:"Content-Type of body, if not already set via headers"`
	Strict        *bool             `json:"strict,omitempty"         jsonschema:"Reject query, header, and cookie values not declared by the operation"`
	GrantedScopes []string          `json:"granted_scopes,omitempty" jsonschema:"OAuth2/OpenID scopes the caller has been granted, for security validation"`
	Offset        int               `json:"offset,omitempty"         jsonschema:"Skip the first N issues (for pagination)"`
	Limit         int               `json:"limit,omitempty"          jsonschema:"Maximum number of issues to return (default 100)"`
}

type oasValidateIssue struct {
	Pointer  string `json:"pointer"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

type oasValidateOutput struct {
	Valid        bool               `json:"valid"`
	OperationID  string             `json:"operation_id,omitempty"`
	Method       string             `json:"method,omitempty"`
	PathTemplate string             `json:"path_template,omitempty"`
	IssueCount   int                `json:"issue_count"`
	Returned     int                `json:"returned"`
	Issues       []oasValidateIssue `json:"issues,omitempty"`
}

func handleOASValidate(ctx context.Context, _ *mcp.CallToolRequest, input oasValidateInput) (*mcp.CallToolResult, oasValidateOutput, error) {
	res, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), oasValidateOutput{}, nil
	}

	factory := schemabuild.NewFactory(res.tr, res.draft)
	sensitive := schemabuild.NewFactory(res.tr, res.draft, schemabuild.WithRedact())

	strict := cfg.ValidateStrict
	if input.Strict != nil {
		strict = *input.Strict
	}
	var opts []reqguard.Option
	if strict {
		opts = append(opts, reqguard.WithStrictMode())
	}
	orch := reqguard.NewOrchestrator(res.tr, res.draft, factory, sensitive, opts...)

	req := reqguard.Request{
		Method:      input.Method,
		Path:        input.Path,
		RawQuery:    input.Query,
		Header:      make(http.Header, len(input.Headers)),
		ContentType: input.ContentType,
	}
	for name, value := range input.Headers {
		req.Header.Set(name, value)
	}
	if req.ContentType == "" {
		req.ContentType = req.Header.Get("Content-Type")
	}
	for name, value := range input.Cookies {
		req.Cookies = append(req.Cookies, &http.Cookie{Name: name, Value: value})
	}
	if input.Body != "" {
		req.Body = []byte(input.Body)
		req.HasBody = true
	}

	scopes := make(map[string]struct{}, len(input.GrantedScopes))
	for _, s := range input.GrantedScopes {
		scopes[s] = struct{}{}
	}

	result, verr := orch.Validate(ctx, req, scopes)
	if verr != nil && result == nil {
		return errResult(verr), oasValidateOutput{}, nil
	}

	output := oasValidateOutput{}
	if result.Operation != nil {
		output.Method = result.Operation.Method
		output.PathTemplate = result.Operation.Template
		if id, ok := result.Operation.Node["operationId"].(string); ok {
			output.OperationID = id
		}
	}

	output.Valid = !result.Issues.HasErrors()
	output.IssueCount = len(result.Issues)
	output.Issues = makeSlice[oasValidateIssue](len(result.Issues))
	for _, issue := range result.Issues {
		output.Issues = append(output.Issues, oasValidateIssue{
			Pointer:  issue.Pointer,
			Message:  issue.Error(),
			Severity: issue.Severity.String(),
		})
	}
	output.Issues = paginate(output.Issues, input.Offset, input.Limit)
	output.Returned = len(output.Issues)

	return nil, output, nil
}
