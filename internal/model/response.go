package model

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type AuthorCount struct {
	Author string `json:"author"`
	Blogs  int    `json:"blogs"`
}

type AuthorLikes struct {
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

type Stats struct {
	Posts      int          `json:"posts"`
	TotalLikes int          `json:"total_likes"`
	Favorite   *Post        `json:"favorite"`
	MostBlogs  *AuthorCount `json:"most_blogs"`
	MostLikes  *AuthorLikes `json:"most_likes"`
}
