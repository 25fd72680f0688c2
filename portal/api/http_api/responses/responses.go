package responses

type BaseResponse struct {
	ErrorMessage string      `json:"error_message,omitempty"`
	Result       interface{} `json:"result"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type SubmissionResponse struct {
	ApplicationID        string `json:"applicationId"`
	ConsentFormCompleted bool   `json:"consentFormCompleted"`
}
