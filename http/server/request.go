package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bpmnauthor/bpmn-author/http/common"
)

// decodeJSONRequestBody decodes the request body into v. Media type and
// request body errors are returned as a common.Problem.
//
// inspired by https://www.alexedwards.net/blog/how-to-properly-parse-a-json-request-body
func decodeJSONRequestBody(w http.ResponseWriter, r *http.Request, v any) error {
	if contentType := r.Header.Get(HeaderContentType); contentType != "" {
		mediaType := strings.TrimSpace(strings.Split(contentType, ";")[0])
		if mediaType != ContentTypeJson {
			return common.Problem{
				Status: http.StatusUnsupportedMediaType,
				Type:   common.ProblemHttpMediaType,
				Title:  "unsupported media type",
				Detail: fmt.Sprintf("media type %s is not supported", mediaType),
			}
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1048576) // 1mb = 1024 * 1024

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError

		problem := common.Problem{
			Status: http.StatusBadRequest,
			Type:   common.ProblemHttpRequestBody,
			Title:  "invalid request body",
		}

		switch {
		case errors.As(err, &syntaxError):
			problem.Detail = fmt.Sprintf("malformed JSON at position %d", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			problem.Detail = "unexpected end of JSON"
		case errors.As(err, &unmarshalTypeError):
			problem.Detail = fmt.Sprintf("JSON field %s has an invalid value at position %d", unmarshalTypeError.Field, unmarshalTypeError.Offset)
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			problem.Detail = fmt.Sprintf("unknown JSON field %s", fieldName)
		case errors.Is(err, io.EOF):
			problem.Detail = "request body is empty"
		case err.Error() == "http: request body too large":
			problem.Detail = "request body size must not exceed 1MB"
		default:
			problem.Detail = fmt.Sprintf("failed to unmarshal JSON: %v", err)
		}

		return problem
	}

	return nil
}

// readBpmnXmlRequestBody reads a raw BPMN XML request body, per the parse
// endpoint's text/xml content type.
func readBpmnXmlRequestBody(w http.ResponseWriter, r *http.Request) (string, error) {
	if contentType := r.Header.Get(HeaderContentType); contentType != "" {
		mediaType := strings.TrimSpace(strings.Split(contentType, ";")[0])
		if mediaType != ContentTypeXml {
			return "", common.Problem{
				Status: http.StatusUnsupportedMediaType,
				Type:   common.ProblemHttpMediaType,
				Title:  "unsupported media type",
				Detail: fmt.Sprintf("media type %s is not supported", mediaType),
			}
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", common.Problem{
			Status: http.StatusBadRequest,
			Type:   common.ProblemHttpRequestBody,
			Title:  "invalid request body",
			Detail: fmt.Sprintf("failed to read body: %v", err),
		}
	}
	if len(data) == 0 {
		return "", common.Problem{
			Status: http.StatusBadRequest,
			Type:   common.ProblemHttpRequestBody,
			Title:  "invalid request body",
			Detail: "request body is empty",
		}
	}

	return string(data), nil
}
