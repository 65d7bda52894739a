package entity

// DocumentRef identifies a binary object held by external storage
type DocumentRef struct {
	ContractID  string `json:"contract_id"`
	StoragePath string `json:"storage_path"`
}

// HasStoragePath reports whether the document was ever uploaded
func (r DocumentRef) HasStoragePath() bool {
	return r.StoragePath != ""
}

// FileUpload represents a file received from the browser
type FileUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}
