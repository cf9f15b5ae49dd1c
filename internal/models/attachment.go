package models

// Attachment is an image linked to an entry.
//
// A pending attachment carries LocalData and no FilePath. Once stored it has
// FilePath and URL set and LocalData cleared, and is never uploaded again.
type Attachment struct {
	ID        string `json:"id"`
	EntryID   string `json:"entryId"`
	LocalData []byte `json:"-"`
	FilePath  string `json:"filePath,omitempty"`
	FileName  string `json:"fileName"`
	FileType  string `json:"fileType"`
	URL       string `json:"url,omitempty"`
	Checksum  string `json:"checksum,omitempty"`
}

// IsPersisted reports whether the attachment has a durable blob.
func (a Attachment) IsPersisted() bool {
	return a.FilePath != ""
}

// IsPending reports whether the attachment still holds only local data.
func (a Attachment) IsPending() bool {
	return !a.IsPersisted() && len(a.LocalData) > 0
}

// Clone copies the attachment including its local payload.
func (a Attachment) Clone() Attachment {
	out := a
	if a.LocalData != nil {
		out.LocalData = append([]byte(nil), a.LocalData...)
	}
	return out
}
