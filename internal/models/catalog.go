package models

import (
	"math/big"
	"math/bits"
)

// CatalogEntry is one video record from the catalog dataset.
type CatalogEntry struct {
	Title        string `json:"title"`
	VideoID      string `json:"video_id"`
	ViewCount    uint64 `json:"view_count"`
	LikeCount    uint64 `json:"like_count"`
	DislikeCount uint64 `json:"dislike_count"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// RankedResult is a catalog entry scored for display.
type RankedResult struct {
	Title        string `json:"title"`
	VideoID      string `json:"video_id"`
	ViewCount    uint64 `json:"view_count"`
	Popularity   int    `json:"popularity"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Popularity returns the share of positive feedback as a whole percentage.
// Entries without any feedback score 0.
func Popularity(likes, dislikes uint64) int {
	total, carry := bits.Add64(likes, dislikes, 0)
	if carry == 0 {
		if total == 0 {
			return 0
		}
		// likes <= total, so hi < total and Div64 cannot overflow.
		hi, lo := bits.Mul64(likes, 100)
		q, _ := bits.Div64(hi, lo, total)
		return int(q)
	}
	n := new(big.Int).Mul(new(big.Int).SetUint64(likes), big.NewInt(100))
	d := new(big.Int).Add(new(big.Int).SetUint64(likes), new(big.Int).SetUint64(dislikes))
	return int(n.Quo(n, d).Int64())
}

// ToRanked converts an entry into a RankedResult.
func (e CatalogEntry) ToRanked() RankedResult {
	return RankedResult{
		Title:        e.Title,
		VideoID:      e.VideoID,
		ViewCount:    e.ViewCount,
		Popularity:   Popularity(e.LikeCount, e.DislikeCount),
		ThumbnailURL: e.ThumbnailURL,
	}
}
