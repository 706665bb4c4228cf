package ephemeris

// Config каталог с файлами эфемерид и префикс для их загрузки из S3.
// У Path нет тега envconfig: иначе при пустом EPHEMERIS_PATH подставился бы системный PATH.
type Config struct {
	Path     string `default:"server/ephemeris"`
	S3Prefix string `envconfig:"S3_PREFIX" default:"ephemeris/"`
}
