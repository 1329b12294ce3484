package service

import "blog-api/internal/model"

func TotalLikes(posts []model.Post) int {
	total := 0
	for _, p := range posts {
		total += p.Likes
	}
	return total
}

// FavoriteBlog returns the post with the most likes. The first one wins a
// tie. ok is false for an empty slice.
func FavoriteBlog(posts []model.Post) (model.Post, bool) {
	if len(posts) == 0 {
		return model.Post{}, false
	}

	favorite := posts[0]
	for _, p := range posts[1:] {
		if p.Likes > favorite.Likes {
			favorite = p
		}
	}
	return favorite, true
}

// MostBlogs returns the author with the most posts, or nil for an empty
// slice. Ties go to the author seen first.
func MostBlogs(posts []model.Post) *model.AuthorCount {
	author, count, ok := topAuthor(posts, func(model.Post) int { return 1 })
	if !ok {
		return nil
	}
	return &model.AuthorCount{Author: author, Blogs: count}
}

// MostLikes returns the author whose posts have the most likes in total,
// with the same tie rule as MostBlogs.
func MostLikes(posts []model.Post) *model.AuthorLikes {
	author, likes, ok := topAuthor(posts, func(p model.Post) int { return p.Likes })
	if !ok {
		return nil
	}
	return &model.AuthorLikes{Author: author, Likes: likes}
}

func topAuthor(posts []model.Post, weight func(model.Post) int) (string, int, bool) {
	if len(posts) == 0 {
		return "", 0, false
	}

	totals := map[string]int{}
	order := make([]string, 0)
	for _, p := range posts {
		if _, seen := totals[p.Author]; !seen {
			order = append(order, p.Author)
		}
		totals[p.Author] += weight(p)
	}

	best := order[0]
	for _, author := range order[1:] {
		if totals[author] > totals[best] {
			best = author
		}
	}
	return best, totals[best], true
}

func Summarize(posts []model.Post) model.Stats {
	stats := model.Stats{
		Posts:      len(posts),
		TotalLikes: TotalLikes(posts),
		MostBlogs:  MostBlogs(posts),
		MostLikes:  MostLikes(posts),
	}
	if favorite, ok := FavoriteBlog(posts); ok {
		stats.Favorite = &favorite
	}
	return stats
}
