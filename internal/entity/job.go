package entity

type StepStatus string

const (
	StatusPending    StepStatus = "pending"
	StatusProcessing StepStatus = "processing"
	StatusCompleted  StepStatus = "completed"
	StatusSkipped    StepStatus = "skipped"
)

// Resolved reports whether a step no longer blocks its stage.
// Only completed and skipped count; processing is started-but-open.
func (s StepStatus) Resolved() bool {
	return s == StatusCompleted || s == StatusSkipped
}

func (s StepStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusSkipped:
		return true
	default:
		return false
	}
}

type StageID string

const (
	StageClaim   StageID = "claim"
	StageRepair  StageID = "repair"
	StageBilling StageID = "billing"
)

type PaymentType string

const (
	PaymentInsurance PaymentType = "Insurance"
	PaymentCash      PaymentType = "Cash"
)

type Step struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Status StepStatus `json:"status"`
	// Timestamp is display-formatted (see engine), empty while pending.
	Timestamp string `json:"timestamp,omitempty"`
	Employee  string `json:"employee,omitempty"`
}

type Stage struct {
	ID          StageID `json:"id"`
	Name        string  `json:"name"`
	Steps       []Step  `json:"steps"`
	IsLocked    bool    `json:"isLocked"`
	IsCompleted bool    `json:"isCompleted"`
}

// Clone returns a deep copy; the steps slice never aliases the receiver's.
func (s Stage) Clone() Stage {
	out := s
	out.Steps = make([]Step, len(s.Steps))
	copy(out.Steps, s.Steps)
	return out
}

// StepIndex returns the position of the step with the given id, or -1.
func (s Stage) StepIndex(stepID string) int {
	for i := range s.Steps {
		if s.Steps[i].ID == stepID {
			return i
		}
	}
	return -1
}

// AllStepsResolved reports whether every step is completed or skipped.
func (s Stage) AllStepsResolved() bool {
	for i := range s.Steps {
		if !s.Steps[i].Status.Resolved() {
			return false
		}
	}
	return true
}

// Job is the aggregate root: one vehicle moving through the
// claim -> repair -> billing workflow.
type Job struct {
	ID string `json:"id"`

	Registration     string      `json:"registration"`
	BagNumber        string      `json:"bagNumber"`
	Brand            string      `json:"brand"`
	Type             string      `json:"type"`
	Model            string      `json:"model"`
	Year             string      `json:"year"`
	Color            string      `json:"color"`
	StartDate        string      `json:"startDate"`
	EstimatedEndDate string      `json:"estimatedEndDate"`
	ExcessFee        int         `json:"excessFee"`
	Receiver         string      `json:"receiver"`
	PaymentType      PaymentType `json:"paymentType"`
	InsuranceCompany string      `json:"insuranceCompany,omitempty"`
	CustomerName     string      `json:"customerName,omitempty"`
	CustomerPhone    string      `json:"customerPhone,omitempty"`
	CustomerAddress  string      `json:"customerAddress,omitempty"`

	Stages            []Stage `json:"stages"`
	CurrentStageIndex int     `json:"currentStageIndex"`
	IsFinished        bool    `json:"isFinished"`
}

// Clone returns a deep copy of the job, including every stage's step slice.
func (j Job) Clone() Job {
	out := j
	out.Stages = make([]Stage, len(j.Stages))
	for i := range j.Stages {
		out.Stages[i] = j.Stages[i].Clone()
	}
	return out
}

// CurrentStageID returns the stage id at the current index, or "" when the
// stages slice is malformed.
func (j Job) CurrentStageID() StageID {
	if j.CurrentStageIndex < 0 || j.CurrentStageIndex >= len(j.Stages) {
		return ""
	}
	return j.Stages[j.CurrentStageIndex].ID
}

// CurrentStageName is the display name of the stage the job sits in.
func (j Job) CurrentStageName() string {
	if j.CurrentStageIndex < 0 || j.CurrentStageIndex >= len(j.Stages) {
		return ""
	}
	return j.Stages[j.CurrentStageIndex].Name
}
