package adminapi

import (
	"fmt"
	"net/http"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"

	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/internal/webserver"
)

func registerExportRoutes() {
	webserver.ApiGET("/clients/export", staffOnly(exportClients))
	webserver.ApiGET("/sales/export", staffOnly(exportSales))
}

type clientExportRow struct {
	ID      int64  `csv:"id"`
	Name    string `csv:"name"`
	Surname string `csv:"surname"`
	Dni     string `csv:"dni"`
	Email   string `csv:"email"`
	Phone   string `csv:"phone"`
	City    string `csv:"city"`
}

type saleExportRow struct {
	ID        int64   `csv:"id"`
	ClientId  int64   `csv:"client_id"`
	Total     float64 `csv:"total"`
	Status    string  `csv:"status"`
	CreatedAt string  `csv:"created_at"`
}

// exportClients streams the client list as CSV or XLSX.
func exportClients(c echo.Context) error {
	var clients []domain.Client
	if err := GetDB(c).Order("id ASC").Find(&clients).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query clients", err.Error())
	}

	rows := make([]clientExportRow, 0, len(clients))
	for _, cl := range clients {
		rows = append(rows, clientExportRow{
			ID: cl.ID, Name: cl.Name, Surname: cl.Surname,
			Dni: cl.Dni, Email: cl.Email, Phone: cl.Phone, City: cl.City,
		})
	}

	if c.QueryParam("format") == "xlsx" {
		xlsx := excelize.NewFile()
		headers := []string{"id", "name", "surname", "dni", "email", "phone", "city"}
		for col, h := range headers {
			xlsx.SetCellValue("Sheet1", fmt.Sprintf("%c1", 'A'+col), h)
		}
		for i, r := range rows {
			line := i + 2
			xlsx.SetCellValue("Sheet1", fmt.Sprintf("A%d", line), r.ID)
			xlsx.SetCellValue("Sheet1", fmt.Sprintf("B%d", line), r.Name)
			xlsx.SetCellValue("Sheet1", fmt.Sprintf("C%d", line), r.Surname)
			xlsx.SetCellValue("Sheet1", fmt.Sprintf("D%d", line), r.Dni)
			xlsx.SetCellValue("Sheet1", fmt.Sprintf("E%d", line), r.Email)
			xlsx.SetCellValue("Sheet1", fmt.Sprintf("F%d", line), r.Phone)
			xlsx.SetCellValue("Sheet1", fmt.Sprintf("G%d", line), r.City)
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="clients.xlsx"`)
		c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Response().WriteHeader(http.StatusOK)
		return xlsx.Write(c.Response())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="clients.csv"`)
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().WriteHeader(http.StatusOK)
	return gocsv.Marshal(&rows, c.Response())
}

// exportSales streams the sales ledger as CSV.
func exportSales(c echo.Context) error {
	var sales []domain.Sale
	if err := GetDB(c).Order("created_at ASC").Find(&sales).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sales", err.Error())
	}

	rows := make([]saleExportRow, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, saleExportRow{
			ID: s.ID, ClientId: s.ClientId, Total: s.Total,
			Status: s.Status, CreatedAt: s.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="sales.csv"`)
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().WriteHeader(http.StatusOK)
	return gocsv.Marshal(&rows, c.Response())
}
