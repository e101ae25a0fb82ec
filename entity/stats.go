package entity

// Stats is the per-user aggregate over the active subset of the entry
// table. TrashedCount is the only figure computed over trashed entries.
type Stats struct {
	TotalFiles    int64 `json:"total_files"`
	TotalSize     int64 `json:"total_size"`
	StarredCount  int64 `json:"starred_count"`
	TrashedCount  int64 `json:"trashed_count"`
	FolderCount   int64 `json:"folder_count"`
	ImageCount    int64 `json:"image_count"`
	VideoCount    int64 `json:"video_count"`
	AudioCount    int64 `json:"audio_count"`
	DocumentCount int64 `json:"document_count"`
	StorageUsed   int64 `json:"storage_used"`
	StorageLimit  int64 `json:"storage_limit"`
}
