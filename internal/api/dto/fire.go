package dto

import "wildfire-evac-service/internal/domain"

type ListFiresResponse struct {
	Bounds domain.Bounds          `json:"bounds"`
	Count  int                    `json:"count"`
	Fires  []domain.FireDetection `json:"fires"`
}
