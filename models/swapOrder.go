package models

// Order statuses as a leg moves through submission.
const (
	StatusSubmitted = "submitted"
	StatusConfirmed = "confirmed"
	StatusFailed    = "failed"
)

// SwapOrder records one submitted swap leg.
type SwapOrder struct {
	BaseModel
	RunID            string `json:"runId"`
	Leg              int    `json:"leg"`
	InputMint        string `json:"inputMint"`
	OutputMint       string `json:"outputMint"`
	Amount           uint64 `json:"amount"`
	SlippageBps      uint64 `json:"slippageBps"`
	FeeMicroLamports uint64 `json:"feeMicroLamports"`
	Signature        string `json:"signature"`
	Status           string `json:"status"`
}

// Create swapOrder
func (order *SwapOrder) Create() error {

	if dbc := GetDB().Create(order); dbc.Error != nil {
		return dbc.Error
	}

	return nil
}

// UpdateStatus persists a status transition for the order.
func (order *SwapOrder) UpdateStatus(status string) error {
	order.Status = status

	if dbc := GetDB().Save(order); dbc.Error != nil {
		return dbc.Error
	}

	return nil
}

// GetSwapOrders lists the legs recorded for one run, in submission order.
func GetSwapOrders(runID string) []SwapOrder {

	var orders []SwapOrder
	GetDB().Table("swap_orders").Where("run_id = ?", runID).Order("leg asc").Find(&orders)

	return orders
}
