package domain

// OpenOutput is returned when a client opens a change set
type OpenOutput struct {
	ID        string `json:"id" example:"6c1f0b8e-0a4e-4b59-8b65-8a4f3c0f9a00"`
	Persisted bool   `json:"persisted" example:"true"`
}

// RevertOutput is returned by the revert endpoint
type RevertOutput struct {
	OK     bool         `json:"ok" example:"true"`
	Report RevertReport `json:"report"`
}

// AckOutput acknowledges commit and undo
type AckOutput struct {
	ID string `json:"id"`
	OK bool   `json:"ok" example:"true"`
}
