package handlers

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"adboard/internal/models"
)

const exportSheet = "Ads"

var exportHeaders = []string{
	"id", "title", "slug", "status", "category", "district", "address",
	"monthly", "featured", "verified", "is_active",
	"view_count", "favorite_count", "inquiry_count", "created_at", "updated_at",
}

func exportRow(ad *models.Ad) []any {
	var monthly any
	if ad.Pricing.Monthly != nil {
		monthly = *ad.Pricing.Monthly
	}
	return []any{
		ad.ID, ad.Title, ad.Slug, string(ad.Status), ad.CategoryName(), ad.DistrictName(), ad.Address(),
		monthly, ad.Featured, ad.Verified, ad.IsActive,
		ad.ViewCount, ad.FavoriteCount, ad.InquiryCount,
		ad.CreatedAt.UTC().Format("2006-01-02 15:04:05"), ad.UpdatedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}

// buildAdsWorkbook writes one header row and one row per ad. The caller closes the file.
func buildAdsWorkbook(ads []*models.Ad) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, ad := range ads {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := exportRow(ad)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("freeze header: %w", err)
	}
	return f, nil
}
