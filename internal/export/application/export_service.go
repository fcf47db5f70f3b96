package application

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
	"github.com/xuri/excelize/v2"

	analysisapp "bilan/internal/analysis/application"
	analysisdomain "bilan/internal/analysis/domain"
	exportdomain "bilan/internal/export/domain"
	shareddomain "bilan/internal/shared/domain"
	sharedinfra "bilan/internal/shared/infrastructure"
)

// ExportService produit les exports tabulaires du bilan
type ExportService struct {
	analysisService *analysisapp.AnalysisService
	batchSize       int
	log             *sharedinfra.Logger
}

// NewExportService crée une nouvelle instance de ExportService
func NewExportService(analysisService *analysisapp.AnalysisService, log *sharedinfra.Logger) *ExportService {
	return &ExportService{
		analysisService: analysisService,
		batchSize:       1000,
		log:             log,
	}
}

// rows exécute l'analyse (cache compris) et aplatit l'arbre de résultats
func (s *ExportService) rows(req analysisdomain.AnalysisRequest) ([]*exportdomain.Row, error) {
	results, err := s.analysisService.Analyze(req, nil)
	if err != nil {
		return nil, err
	}
	return exportdomain.FlattenResults(results), nil
}

// ExportCSV génère le bilan aplati en CSV, en mémoire
func (s *ExportService) ExportCSV(req analysisdomain.AnalysisRequest) ([]byte, error) {
	rows, err := s.rows(req)
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(make([]byte, 0, 1024*1024))
	w := csv.NewWriter(buf)

	if err := w.Write(exportdomain.CSVHeaders()); err != nil {
		return nil, err
	}

	for i, row := range rows {
		if err := w.Write(row.ToCSVRow()); err != nil {
			return nil, err
		}
		// Flush par lots pour limiter la pression mémoire du writer
		if (i+1)%s.batchSize == 0 {
			w.Flush()
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ExportXLSX génère le bilan aplati en classeur Excel
func (s *ExportService) ExportXLSX(req analysisdomain.AnalysisRequest) ([]byte, error) {
	rows, err := s.rows(req)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Bilan"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for c, header := range exportdomain.CSVHeaders() {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for r, row := range rows {
		for c, value := range row.ToCSVRow() {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	out, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// parquetRow schéma Parquet de la ligne d'export
type parquetRow struct {
	Grouping          string   `parquet:"name=grouping, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Supplier          string   `parquet:"name=supplier, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Reference         string   `parquet:"name=reference, type=BYTE_ARRAY, convertedtype=UTF8"`
	Department        string   `parquet:"name=department, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Group             string   `parquet:"name=group, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Family            string   `parquet:"name=family, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Stone             string   `parquet:"name=stone, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	CurrentSales      int32    `parquet:"name=current_sales, type=INT32"`
	PriorSales        int32    `parquet:"name=prior_sales, type=INT32"`
	CurrentUnitOrders int32    `parquet:"name=current_unit_orders, type=INT32"`
	PriorUnitOrders   int32    `parquet:"name=prior_unit_orders, type=INT32"`
	CurrentRevenue    float64  `parquet:"name=current_revenue, type=DOUBLE"`
	PriorRevenue      float64  `parquet:"name=prior_revenue, type=DOUBLE"`
	CurrentMargin     float64  `parquet:"name=current_margin, type=DOUBLE"`
	PriorMargin       float64  `parquet:"name=prior_margin, type=DOUBLE"`
	CurrentStock      int32    `parquet:"name=current_stock, type=INT32"`
	PriorStock        int32    `parquet:"name=prior_stock, type=INT32"`
	CurrentStockCost  float64  `parquet:"name=current_stock_cost, type=DOUBLE"`
	PriorStockCost    float64  `parquet:"name=prior_stock_cost, type=DOUBLE"`
	RevenueShare      *float64 `parquet:"name=revenue_share, type=DOUBLE, repetitiontype=OPTIONAL"`
	PriorRevenueShare *float64 `parquet:"name=prior_revenue_share, type=DOUBLE, repetitiontype=OPTIONAL"`
	RevenueShareDiff  *float64 `parquet:"name=revenue_share_diff, type=DOUBLE, repetitiontype=OPTIONAL"`
	BestSalePrice     *float64 `parquet:"name=best_sale_price, type=DOUBLE, repetitiontype=OPTIONAL"`
	PublicSalePrice   float64  `parquet:"name=public_sale_price, type=DOUBLE"`
	InPareto          bool     `parquet:"name=in_pareto, type=BOOLEAN"`
}

// ExportParquet génère le bilan aplati en fichier Parquet, en mémoire
func (s *ExportService) ExportParquet(req analysisdomain.AnalysisRequest) ([]byte, error) {
	rows, err := s.rows(req)
	if err != nil {
		return nil, err
	}

	fw := buffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(parquetRow), 2)
	if err != nil {
		return nil, fmt.Errorf("creating parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range rows {
		if err := pw.Write(toParquetRow(row)); err != nil {
			return nil, fmt.Errorf("writing parquet row: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("closing parquet writer: %w", err)
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}

	return fw.Bytes(), nil
}

// toParquetRow convertit une ligne d'export vers le schéma Parquet
// Un pourcentage non fini sort en valeur absente, comme en CSV.
func toParquetRow(r *exportdomain.Row) *parquetRow {
	row := &parquetRow{
		Grouping:          r.Grouping,
		Supplier:          r.Supplier,
		Reference:         r.Reference,
		Department:        r.Department,
		Group:             r.Group,
		Family:            r.Family,
		Stone:             r.Stone,
		CurrentSales:      int32(r.CurrentSales),
		PriorSales:        int32(r.PriorSales),
		CurrentUnitOrders: int32(r.CurrentUnitOrders),
		PriorUnitOrders:   int32(r.PriorUnitOrders),
		CurrentRevenue:    r.CurrentRevenue,
		PriorRevenue:      r.PriorRevenue,
		CurrentMargin:     r.CurrentMargin,
		PriorMargin:       r.PriorMargin,
		CurrentStock:      int32(r.CurrentStock),
		PriorStock:        int32(r.PriorStock),
		CurrentStockCost:  r.CurrentStockCost,
		PriorStockCost:    r.PriorStockCost,
		PublicSalePrice:   r.PublicSalePrice,
		InPareto:          r.InPareto,
		BestSalePrice:     r.BestSalePrice,
	}

	if shareddomain.IsDefined(r.RevenueShare) {
		share := r.RevenueShare
		row.RevenueShare = &share
	}
	if shareddomain.IsDefined(r.PriorRevenueShare) {
		share := r.PriorRevenueShare
		row.PriorRevenueShare = &share
	}
	if shareddomain.IsDefined(r.RevenueShareDiff) {
		diff := r.RevenueShareDiff
		row.RevenueShareDiff = &diff
	}

	return row
}
