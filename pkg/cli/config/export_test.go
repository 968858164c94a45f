package config

func NewSlackForTest(botToken, channelID, baseURL string) *Slack {
	return &Slack{botToken: botToken, channelID: channelID, baseURL: baseURL}
}

func NewAuthForTest(jwtSecret string, noAuth bool) *Auth {
	return &Auth{
		jwtSecret:   jwtSecret,
		noAuth:      noAuth,
		noAuthEmail: "dev@kyclytics.local",
		noAuthName:  "Developer",
	}
}

func NewRepositoryForTest(backend string) *Repository {
	return &Repository{backend: backend}
}

func NewStorageForTest(backend, dir string) *Storage {
	return &Storage{backend: backend, dir: dir}
}

func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}
