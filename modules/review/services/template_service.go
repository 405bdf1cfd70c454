package services

import "github.com/iota-uz/review-sdk/pkg/excel"

const TemplateFileName = "review-import-template.xlsx"

type TemplateService struct{}

func NewTemplateService() *TemplateService {
	return &TemplateService{}
}

// Template renders an empty import workbook holding only the header rows.
func (s *TemplateService) Template() ([]byte, error) {
	return excel.Write(WorkbookLayout())
}
