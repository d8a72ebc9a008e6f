// Package schema defines the wire types shared by the Kada Commute API, the
// client SDK, and the attendance ledger. The JSON field names of Record and
// Employee double as the column names of the backing partitions.
package schema

// Employee is an identity record from the fixed "Employees" partition.
// It is immutable from the ledger's point of view.
type Employee struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Record is one attendance row in one weekly partition: at most one per
// employee per day. Times are HH:MM:SS strings, possibly empty.
type Record struct {
	Date         string `json:"date"`
	Name         string `json:"name"`
	Location     string `json:"location"`
	CheckInTime  string `json:"checkin_time"`
	CheckOutTime string `json:"checkout_time"`
	EmployeeID   string `json:"employee_id"`
	Reason       string `json:"reason"`
}

// LoginRequest resolves an employee by exact name.
type LoginRequest struct {
	Name string `json:"name" binding:"required"`
}

// CheckInRequest records the start of a working day. Time and Date are
// optional; when omitted the server picks them.
type CheckInRequest struct {
	Name       string `json:"name" binding:"required"`
	Location   string `json:"location" binding:"required"`
	EmployeeID string `json:"employee_id" binding:"required"`
	Time       string `json:"time,omitempty"`
	Date       string `json:"date,omitempty"`
}

// CheckOutRequest closes an existing attendance record for the day.
type CheckOutRequest struct {
	Name       string `json:"name" binding:"required"`
	EmployeeID string `json:"employee_id" binding:"required"`
	Time       string `json:"time,omitempty"`
	Date       string `json:"date,omitempty"`
}

// UpdateRecordRequest rewrites a single time field of one located record.
type UpdateRecordRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Field      string `json:"field" binding:"required,oneof=checkin checkout"`
	Value      string `json:"value" binding:"required"`
}

// DeleteRecordRequest removes one located record.
type DeleteRecordRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
}

// StatusResponse is the uniform success/failure envelope of the API.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
