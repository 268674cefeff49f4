package domain

// Choice is a user's answer to a presented artifact.
type Choice string

const (
	ChoiceAccept     Choice = "accept"
	ChoiceReject     Choice = "reject"
	ChoiceRegenerate Choice = "regenerate"
	ChoiceEdit       Choice = "edit"
)

// LoopState is a state of the confirmation loop.
type LoopState string

const (
	StatePresented    LoopState = "presented"
	StateConfirmed    LoopState = "confirmed"
	StateRejected     LoopState = "rejected"
	StateRegenerating LoopState = "regenerating"
	StateEditing      LoopState = "editing"
)
