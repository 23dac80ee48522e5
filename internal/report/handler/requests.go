package handler

import (
	"time"

	"vatour/internal/report"
)

type submitRequest struct {
	LegID       string `json:"legId"`
	SessionID   string `json:"sessionId,omitempty"`
	FlightDate  string `json:"flightDate"`
	Callsign    string `json:"callsign"`
	Aircraft    string `json:"aircraft"`
	Route       string `json:"route"`
	Online      bool   `json:"online"`
	EvidenceURL string `json:"evidenceUrl,omitempty"`
}

func (r submitRequest) toSubmission() report.Submission {
	return report.Submission{
		LegID:       r.LegID,
		SessionID:   r.SessionID,
		FlightDate:  r.FlightDate,
		Callsign:    r.Callsign,
		Aircraft:    r.Aircraft,
		Route:       r.Route,
		Online:      r.Online,
		EvidenceURL: r.EvidenceURL,
	}
}

type reviewRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type reportResponse struct {
	ID          string     `json:"id"`
	TourLegID   string     `json:"tourLegId"`
	Status      string     `json:"status"`
	SubmittedAt time.Time  `json:"submittedAt"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty"`
	ReviewNote  string     `json:"reviewNote,omitempty"`
	FlightDate  string     `json:"flightDate"`
	Callsign    string     `json:"callsign"`
	Aircraft    string     `json:"aircraft,omitempty"`
	Route       string     `json:"route,omitempty"`
	Online      bool       `json:"online"`
	EvidenceURL string     `json:"evidenceUrl,omitempty"`
}

func fromReport(r report.Report) reportResponse {
	return reportResponse{
		ID:          r.ID,
		TourLegID:   r.TourLegID,
		Status:      string(r.Status),
		SubmittedAt: r.SubmittedAt,
		ReviewedAt:  r.ReviewedAt,
		ReviewNote:  r.ReviewNote,
		FlightDate:  r.FlightDate,
		Callsign:    r.Callsign,
		Aircraft:    r.Aircraft,
		Route:       r.Route,
		Online:      r.Online,
		EvidenceURL: r.EvidenceURL,
	}
}
