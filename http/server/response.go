package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/bpmnauthor/bpmn-author/engine"
	"github.com/bpmnauthor/bpmn-author/http/common"
)

func encodeJSONProblemResponseBody(w http.ResponseWriter, r *http.Request, err error) {
	problem, ok := err.(common.Problem)
	if !ok {
		engineErr, ok := err.(engine.Error)
		if !ok || engineErr.Type == 0 {
			log.Printf("%s %s: unexpected error occurred: %v", r.Method, r.RequestURI, err)

			problem = common.Problem{
				Status: http.StatusInternalServerError,
				Title:  "unexpected error occurred",
				Detail: "see server logs",
			}
		} else {
			var (
				status      int
				problemType common.ProblemType
			)

			switch engineErr.Type {
			case engine.ErrorSchema:
				status = http.StatusBadRequest
				problemType = common.ProblemSchema
			case engine.ErrorLookup:
				status = http.StatusBadRequest
				problemType = common.ProblemLookup
			case engine.ErrorStructure:
				status = http.StatusUnprocessableEntity
				problemType = common.ProblemStructure
			case engine.ErrorProposal:
				status = http.StatusBadRequest
				problemType = common.ProblemProposal
			case engine.ErrorTransport:
				status = http.StatusBadGateway
				problemType = common.ProblemTransport
			case engine.ErrorEditExhausted:
				status = http.StatusUnprocessableEntity
				problemType = common.ProblemEditExhausted
			default:
				status = http.StatusInternalServerError
			}

			errs := make([]common.Error, len(engineErr.Causes))
			for i, cause := range engineErr.Causes {
				errs[i] = common.Error{
					Pointer: cause.Pointer,
					Type:    cause.Type,
					Detail:  cause.Detail,
				}
			}

			problem = common.Problem{
				Status: status,
				Type:   problemType,
				Title:  engineErr.Title,
				Detail: engineErr.Detail,
				Errors: errs,
			}
		}
	}

	w.Header().Set(HeaderContentType, ContentTypeProblemJson)
	w.WriteHeader(problem.Status)

	if err := json.NewEncoder(w).Encode(problem); err != nil {
		log.Printf("%s %s: failed to create JSON problem response body: %v", r.Method, r.RequestURI, err)
		http.Error(w, "unexpected error occurred - see server logs", http.StatusInternalServerError)
	}
}

func encodeJSONResponseBody(w http.ResponseWriter, r *http.Request, v any, statusCode int) {
	w.Header().Set(HeaderContentType, ContentTypeJson)
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("%s %s: failed to create JSON response body: %v", r.Method, r.RequestURI, err)
		http.Error(w, "unexpected error occurred - see logs", http.StatusInternalServerError)
	}
}

func writeBpmnXmlResponseBody(w http.ResponseWriter, bpmnXml string) {
	w.Header().Set(HeaderContentType, ContentTypeXml)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(bpmnXml))
}
