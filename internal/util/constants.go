package util

const (
	TimeFormat     = "02/01/2006 15:04:05"
	DateFormatFile = "2006-01-02"
)

const (
	StorageEmbedded = "embedded"
	StorageLocal    = "local"
	StorageMinio    = "minio"
)

// Chaves do armazenamento persistente. Mudanças aqui quebram dados já
// gravados.
const (
	SessionKeyPrefix = "histomed:user_session:"
	LoginLogsKey     = "histomed:login_logs"
	MindMapsKey      = "histomed:mindmaps"
)

const (
	MimeImage = "image/"
	MimeJPEG  = "image/jpeg"
)
