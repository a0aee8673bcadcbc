package listing

import "adboard/internal/models"

// PageSize is the public list page size.
const PageSize = 9

// Paginate reslices an already filtered and sorted list. Pages start at 1;
// a page past the end is empty.
func Paginate(ads []models.Ad, page, size int) []models.Ad {
	if size <= 0 {
		size = PageSize
	}
	if page < 1 {
		page = 1
	}

	// compare page counts before multiplying so huge pages cannot overflow
	if page-1 >= TotalPages(len(ads), size) {
		return []models.Ad{}
	}
	start := (page - 1) * size
	end := start + size
	if end > len(ads) {
		end = len(ads)
	}
	return ads[start:end]
}

func TotalPages(total, size int) int {
	if size <= 0 {
		size = PageSize
	}
	if total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
