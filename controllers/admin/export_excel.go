package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/webshop/models"
)

const timeLayout = "2006-01-02 15:04:05"

// GET /admin/contacts/export-excel
func ExportContactsToExcel(db *gorm.DB, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var contacts []models.Contact
		if err := db.WithContext(c.Request.Context()).Order("created_at desc").Find(&contacts).Error; err != nil {
			log.Error("export contacts", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contacts"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Contacts")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}
		addHeader(sheet, "ID", "Name", "Email", "Message", "CreatedAt")
		for _, m := range contacts {
			row := sheet.AddRow()
			row.AddCell().SetValue(m.ID)
			row.AddCell().SetValue(m.Name)
			row.AddCell().SetValue(m.Email)
			row.AddCell().SetValue(m.Message)
			row.AddCell().SetValue(m.CreatedAt.Format(timeLayout))
		}
		sendWorkbook(c, log, file, "contacts.xlsx")
	}
}

// GET /admin/reviews/export-excel
func ExportReviewsToExcel(db *gorm.DB, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reviews []models.Review
		if err := db.WithContext(c.Request.Context()).Order("created_at desc").Find(&reviews).Error; err != nil {
			log.Error("export reviews", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Reviews")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}
		addHeader(sheet, "ID", "Name", "Message", "CreatedAt")
		for _, r := range reviews {
			row := sheet.AddRow()
			row.AddCell().SetValue(r.ID)
			row.AddCell().SetValue(r.Name)
			row.AddCell().SetValue(r.Message)
			row.AddCell().SetValue(r.CreatedAt.Format(timeLayout))
		}
		sendWorkbook(c, log, file, "reviews.xlsx")
	}
}

func addHeader(sheet *xlsx.Sheet, headers ...string) {
	row := sheet.AddRow()
	for _, h := range headers {
		row.AddCell().SetValue(h)
	}
}

// sendWorkbook streams file as a download.
func sendWorkbook(c *gin.Context, log *zap.Logger, file *xlsx.File, filename string) {
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")

	if err := file.Write(c.Writer); err != nil {
		log.Error("write workbook", zap.String("file", filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
	}
}
