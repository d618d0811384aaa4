package domain

// SubmitInput is the JSON metadata part of a submission
type SubmitInput struct {
	Title           string `json:"title"                    validate:"required,nonblank" example:"Monitoria de Calculo I"`
	Category        string `json:"category"                 validate:"required"          example:"MONITORING"`
	DurationInHours int    `json:"durationInHours"          validate:"gt=0"              example:"60"`
	ExpirationDate  *Date  `json:"expirationDate,omitempty" swaggertype:"string"         example:"2026-12-31"`
}

// File is the uploaded document as received by the transport
type File struct {
	Bytes               []byte
	OriginalFilename    string
	DeclaredContentType string
}

// ValidateInput is the admin decision body
type ValidateInput struct {
	Status          string  `json:"status"          validate:"required" example:"DENIED"`
	RejectionReason *string `json:"rejectionReason"                     example:"Missing issue date"`
}

// ViewURL is the response of the view-url endpoint
type ViewURL struct {
	URL string `json:"url" example:"https://certificates.s3.amazonaws.com/01J9Z3K8X4V7N2Q5R6T8W0Y1AB.pdf"`
}
