package domain

type TransferStatus string

const (
	TransferRequested TransferStatus = "REQUESTED"
	TransferCompleted TransferStatus = "COMPLETED"
	TransferRejected  TransferStatus = "REJECTED"
)

// Terminal reports whether no further transition is allowed from s.
func (s TransferStatus) Terminal() bool {
	return s == TransferCompleted || s == TransferRejected
}

type ProductRef struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name,omitempty"`
}

type StoreRef struct {
	StoreID int64  `json:"storeId"`
	Name    string `json:"name,omitempty"`
}

type UserRef struct {
	Username string `json:"username"`
}

// TransferRequest is owned by the backend; the console only holds a copy
// between a read and the following write.
type TransferRequest struct {
	TransferID  int64          `json:"transferId,omitempty"`
	Product     ProductRef     `json:"product"`
	FromStore   StoreRef       `json:"fromStore"`
	ToStore     StoreRef       `json:"toStore"`
	Quantity    int            `json:"quantity"`
	Notes       string         `json:"notes,omitempty"`
	Status      TransferStatus `json:"status"`
	RequestedBy *UserRef       `json:"requestedBy,omitempty"`
	ApprovedBy  *UserRef       `json:"approvedBy,omitempty"`
	Timestamp   string         `json:"timestamp,omitempty"`
}
