package entities

// Attachment is a file attached to a change task in the ticketing system.
type Attachment struct {
	SysID    string `json:"sys_id"`
	FileName string `json:"file_name"`
}
