package domain

// CreateNamedInput creates a product or a solution
type CreateNamedInput struct {
	Name        string  `json:"name" validate:"required,notblank,max=200" example:"Edge Router"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
}

// UpdateNamedInput patches a product or a solution, nil fields are left alone
type UpdateNamedInput struct {
	Name        *string `json:"name" validate:"omitempty,notblank,max=200"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
}

// CreateTaskInput creates a task, exactly one parent id must be set
// a nil SequenceNumber takes the next free slot under the parent
type CreateTaskInput struct {
	ProductID      *string `json:"product_id" validate:"omitempty,uuid"`
	SolutionID     *string `json:"solution_id" validate:"omitempty,uuid"`
	Name           string  `json:"name" validate:"required,notblank,max=200"`
	Description    *string `json:"description" validate:"omitempty,max=4000"`
	EstMinutes     int     `json:"est_minutes" validate:"gte=0"`
	Weight         float64 `json:"weight" validate:"gte=0,lte=100"`
	Notes          *string `json:"notes" validate:"omitempty,max=4000"`
	Priority       *string `json:"priority" validate:"omitempty,max=32"`
	SequenceNumber *int    `json:"sequence_number" validate:"omitempty,gte=1"`
}

// UpdateTaskInput patches a task, nil fields are left alone
type UpdateTaskInput struct {
	Name           *string  `json:"name" validate:"omitempty,notblank,max=200"`
	Description    *string  `json:"description" validate:"omitempty,max=4000"`
	EstMinutes     *int     `json:"est_minutes" validate:"omitempty,gte=0"`
	Weight         *float64 `json:"weight" validate:"omitempty,gte=0,lte=100"`
	Notes          *string  `json:"notes" validate:"omitempty,max=4000"`
	Priority       *string  `json:"priority" validate:"omitempty,max=32"`
	SequenceNumber *int     `json:"sequence_number" validate:"omitempty,gte=1"`
}

// DeleteOutput acknowledges a soft delete
type DeleteOutput struct {
	ID string `json:"id"`
	OK bool   `json:"ok"`
}
