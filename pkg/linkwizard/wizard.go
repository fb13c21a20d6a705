package linkwizard

import "errors"

// Step identifies a wizard stage.
type Step int

const (
	StepPersonal Step = iota + 1
	StepBank
	StepCard
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepPersonal:
		return "Personal Details"
	case StepBank:
		return "Bank Account"
	case StepCard:
		return "Credit Card"
	case StepReview:
		return "Review & Link"
	}
	return "Unknown"
}

// ErrWrongStep is returned when a stage is submitted out of order.
var ErrWrongStep = errors.New("stage submitted out of order")

// Wizard walks the linking form one stage at a time. A stage that fails
// validation leaves the wizard where it was.
type Wizard struct {
	step     Step
	personal *PersonalInfo
	bank     *BankAccount
	card     *Card
}

// NewWizard starts at the personal details stage.
func NewWizard() *Wizard {
	return &Wizard{step: StepPersonal}
}

// Step returns the current stage.
func (w *Wizard) Step() Step {
	return w.step
}

// SubmitPersonal validates stage 1 and advances to the bank stage.
func (w *Wizard) SubmitPersonal(p PersonalInfo) error {
	if w.step != StepPersonal {
		return ErrWrongStep
	}
	if err := ValidatePersonal(p); err != nil {
		return err
	}
	w.personal = &p
	w.step = StepBank
	return nil
}

// SubmitBank validates stage 2 and advances to the card stage.
func (w *Wizard) SubmitBank(b BankAccount) error {
	if w.step != StepBank {
		return ErrWrongStep
	}
	if err := ValidateBank(b); err != nil {
		return err
	}
	w.bank = &b
	w.step = StepCard
	return nil
}

// SubmitCard validates stage 3 and advances to review.
func (w *Wizard) SubmitCard(c Card) error {
	if w.step != StepCard {
		return ErrWrongStep
	}
	if err := ValidateCard(c); err != nil {
		return err
	}
	w.card = &c
	w.step = StepReview
	return nil
}

// Back moves one stage back. Entered data is kept.
func (w *Wizard) Back() {
	if w.step > StepPersonal {
		w.step--
	}
}

// Review returns the request to submit. It only succeeds on the review
// stage with every earlier stage filled in.
func (w *Wizard) Review() (LinkRequest, error) {
	if w.step != StepReview || w.personal == nil || w.bank == nil || w.card == nil {
		return LinkRequest{}, ErrWrongStep
	}
	return LinkRequest{Personal: *w.personal, Bank: *w.bank, Card: *w.card}, nil
}
