package banking

import (
	"encoding/json"
	"net/http"
)

// Outcome is the client-facing status and stable error token for a downstream error code.
type Outcome struct {
	Status int
	Token  string
}

var errorOutcomes = map[string]Outcome{
	"VALIDATION_FAILURE":      {Status: http.StatusUnprocessableEntity, Token: "validation_failure"},
	"INVALID_DATE_RANGE":      {Status: http.StatusUnprocessableEntity, Token: "invalid_date_range"},
	"INVALID_AMOUNT":          {Status: http.StatusUnprocessableEntity, Token: "invalid_amount"},
	"INVALID_CPF":             {Status: http.StatusUnprocessableEntity, Token: "invalid_cpf"},
	"CUSTOMER_NOT_FOUND":      {Status: http.StatusNotFound, Token: "customer_not_found"},
	"SENDER_NOT_FOUND":        {Status: http.StatusNotFound, Token: "sender_not_found"},
	"RECEIVER_NOT_FOUND":      {Status: http.StatusNotFound, Token: "receiver_not_found"},
	"STATEMENT_NOT_FOUND":     {Status: http.StatusNotFound, Token: "statement_not_found"},
	"INSUFFICIENT_FUNDS":      {Status: http.StatusBadRequest, Token: "insufficient_funds"},
	"SAME_ACCOUNT_TRANSFER":   {Status: http.StatusBadRequest, Token: "same_account_transfer"},
	"CUSTOMER_ALREADY_EXISTS": {Status: http.StatusBadRequest, Token: "customer_already_exists"},
	"CUSTOMER_NOT_APPROVED":   {Status: http.StatusBadRequest, Token: "customer_not_approved"},
	"TRANSFER_FAILED":         {Status: http.StatusBadRequest, Token: "transfer_failed"},
}

// APIError is the error envelope the banking service embeds in its payloads.
type APIError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

// LookupError resolves a downstream error code. Unknown codes report false.
func LookupError(code string) (Outcome, bool) {
	outcome, ok := errorOutcomes[code]
	return outcome, ok
}

// DecodeError extracts the error envelope from body. It reports false when
// the body carries no string error code.
func DecodeError(body []byte) (*APIError, bool) {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return nil, false
	}
	if apiErr.Code == "" {
		return nil, false
	}
	return &apiErr, true
}

// Translate maps a response to a known outcome. It reports false when the
// payload has no code or the code is not in the table.
func (r *Response) Translate() (*APIError, Outcome, bool) {
	apiErr, ok := DecodeError(r.Body)
	if !ok {
		return nil, Outcome{}, false
	}
	outcome, ok := LookupError(apiErr.Code)
	if !ok {
		return apiErr, Outcome{}, false
	}
	return apiErr, outcome, true
}
