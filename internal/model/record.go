package model

// RecordTypePTR is the only record type this service writes
const RecordTypePTR = "PTR"

// Record is a row of the DNS server's records table. Only the columns this
// service writes are mapped; the table itself belongs to the DNS server.
type Record struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	DomainID int64  `gorm:"column:domain_id;index" json:"domain_id"`
	Name     string `gorm:"type:varchar(255);index:idx_name_type" json:"name"`
	Type     string `gorm:"type:varchar(10);index:idx_name_type" json:"type"`
	Content  string `gorm:"type:varchar(64000)" json:"content"`
	TTL      int    `gorm:"column:ttl" json:"ttl"`
	Auth     bool   `gorm:"column:auth" json:"auth"`
}

// TableName specifies the table name for Record model
func (Record) TableName() string {
	return "records"
}

// NewPTRRecord builds an authoritative PTR record
func NewPTRRecord(domainID int64, name, content string, ttl int) *Record {
	return &Record{
		DomainID: domainID,
		Name:     name,
		Type:     RecordTypePTR,
		Content:  content,
		TTL:      ttl,
		Auth:     true,
	}
}
