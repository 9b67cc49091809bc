package grpcserver

import "fontpair/pkg/models"

type ListFontsRequest struct {
	Q        string `json:"q"`
	Category string `json:"category"`
	Foundry  string `json:"foundry"`
	Sort     string `json:"sort"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
}

type ListFontsResponse struct {
	Total    int           `json:"total"`
	Filtered int           `json:"filtered"`
	Limit    int           `json:"limit"`
	Offset   int           `json:"offset"`
	Items    []models.Font `json:"items"`
}

type GetFontRequest struct {
	Family string `json:"family"`
}

type GetFontResponse struct {
	Font models.Font `json:"font"`
}

type RandomPairRequest struct{}

type ComplementRequest struct {
	Family     string `json:"family"`
	LockedRole string `json:"locked_role"`
}

type PairResponse struct {
	Header models.FontRecord `json:"header"`
	Body   models.FontRecord `json:"body"`
	Score  int               `json:"score"`
}
