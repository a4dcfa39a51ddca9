package models

type PagingInfo struct {
	CurrentPage  int   `json:"current_page"`
	ItemsPerPage int   `json:"items_per_page"`
	TotalItems   int64 `json:"total_items"`
	TotalPages   int   `json:"total_pages"`
}

func NewPagingInfo(page, perPage int, total int64) PagingInfo {
	info := PagingInfo{CurrentPage: page, ItemsPerPage: perPage, TotalItems: total}
	if perPage > 0 {
		info.TotalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return info
}

type ProductsListViewModel struct {
	Products        []Product  `json:"products"`
	PagingInfo      PagingInfo `json:"paging_info"`
	CurrentCategory string     `json:"current_category"`
	Categories      []string   `json:"categories"`
}

type NavViewModel struct {
	Categories       []string `json:"categories"`
	SelectedCategory string   `json:"selected_category"`
}

type CartIndexViewModel struct {
	Cart      *Cart  `json:"cart"`
	ReturnURL string `json:"return_url"`
}

type CartSummaryViewModel struct {
	ItemCount int    `json:"item_count"`
	Total     string `json:"total"`
}
