package schemas

// Identity is the principal produced by the GitHub exchange. The access token
// is kept server side only.
type Identity struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	AccessToken string `json:"-"`
}

type Commit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	Repo    string `json:"repo"`
	Date    string `json:"date"`
}

type ServiceInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
