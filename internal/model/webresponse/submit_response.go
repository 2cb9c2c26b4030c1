package webresponse

// SubmitResponse is the wire shape for quote submissions. Exactly one of
// the success fields or Error is populated; omitempty keeps the JSON down
// to the fields that matter for each outcome.
type SubmitResponse struct {
	OK      bool   `json:"ok,omitempty"`
	ID      string `json:"id,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}
