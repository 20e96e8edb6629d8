package service

import (
	"stockledger/internal/clock"
	"stockledger/internal/database"
)

type HomeResponse struct {
	Clocks            []clock.WorldClock `json:"clocks"`
	DatabaseConnected bool               `json:"database_connected"`
}

// DashboardService feeds the home page. It works without a database.
type DashboardService interface {
	GetHome() HomeResponse
}

type dashboardService struct {
	session *database.Session
	clock   clock.Clock
}

func NewDashboardService(session *database.Session, clk clock.Clock) DashboardService {
	if clk == nil {
		clk = clock.System
	}
	return &dashboardService{session: session, clock: clk}
}

func (s *dashboardService) GetHome() HomeResponse {
	return HomeResponse{
		Clocks:            clock.Dashboard(s.clock.Now()),
		DatabaseConnected: s.session.IsConnected(),
	}
}
