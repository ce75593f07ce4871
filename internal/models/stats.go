package models

// SectorStats counts MSMEs and their analytics within a sector
type SectorStats struct {
	SectorID   int64  `json:"sector_id"`
	SectorName string `json:"sector_name"`
	MSMEs      int64  `json:"msmes"`
	Visits     int64  `json:"visits"`
	Exports    int64  `json:"exports"`
}

// DashboardStats is the admin dashboard summary
type DashboardStats struct {
	TotalMSMEs   int64         `json:"total_msmes"`
	TotalSectors int64         `json:"total_sectors"`
	TotalVisits  int64         `json:"total_visits"`
	TotalExports int64         `json:"total_exports"`
	Sectors      []SectorStats `json:"sectors"`
}
