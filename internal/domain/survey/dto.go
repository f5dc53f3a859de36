package survey

// PageRequest is the dashboard listing request shared by both collections.
type PageRequest struct {
	Page    int
	Limit   Limit
	Search  string
	Filters Filters
}

type Pagination struct {
	Page               int   `json:"page"`
	Limit              Limit `json:"limit"`
	TotalManagers      int   `json:"totalManagers"`
	TotalWorkers       int   `json:"totalWorkers"`
	TotalPagesManagers int   `json:"totalPagesManagers"`
	TotalPagesWorkers  int   `json:"totalPagesWorkers"`
}

type Page struct {
	Managers   []Record   `json:"managers"`
	Workers    []Record   `json:"workers"`
	Pagination Pagination `json:"pagination"`
}
