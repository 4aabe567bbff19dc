package checkoutevents

const (
	TopicName             = "checkout"
	checkoutStartedName   = TopicName + ".started"
	checkoutCompletedName = TopicName + ".completed"
)

type CheckoutStarted struct {
	ProviderName     string
	ExternalOrderID  string
	ProcessorOrderID string
	ProductID        string
	Amount           string
	Currency         string
	PlanType         string
	Months           int
}

func (e CheckoutStarted) GetEventTypeName() string {
	return checkoutStartedName
}

func (e CheckoutStarted) GetAggregateName() string {
	return e.ExternalOrderID
}

type CheckoutStatus string

const (
	CheckoutStatusUndefined   CheckoutStatus = ""
	CheckoutStatusApproved    CheckoutStatus = "approved"
	CheckoutStatusNotApproved CheckoutStatus = "not_approved"
)

type CheckoutCompleted struct {
	ProviderName          string
	ExternalOrderID       string
	ProcessorOrderID      string
	CheckoutStatus        CheckoutStatus
	CheckoutStatusDetails string
}

func (e CheckoutCompleted) GetEventTypeName() string {
	return checkoutCompletedName
}

func (e CheckoutCompleted) GetAggregateName() string {
	if e.ExternalOrderID != "" {
		return e.ExternalOrderID
	}
	return e.ProcessorOrderID
}
