package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/webshop/models"
)

// POST /admin/products/import-excel
//
// Columns: ID, Name, Description, Price, Image. Rows with a known ID update
// that product; other rows are created. Rows without a name or with a bad
// price are skipped.
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		}
		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		tx := db.WithContext(c.Request.Context())
		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < len(sheet.Rows); i++ {
			row := sheet.Rows[i]
			get := func(index int) string {
				if row != nil && index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			name := get(1)
			price, err := strconv.ParseFloat(get(3), 64)
			if name == "" || err != nil || price < 0 {
				skippedCount++
				continue
			}
			product := models.Product{
				Name:        name,
				Description: get(2),
				Price:       price,
				Image:       get(4),
			}

			if id, err := strconv.ParseUint(get(0), 10, 64); err == nil {
				var existing models.Product
				err := tx.First(&existing, id).Error
				if err == nil {
					existing.Name = product.Name
					existing.Description = product.Description
					existing.Price = product.Price
					existing.Image = product.Image
					if err := tx.Save(&existing).Error; err != nil {
						skippedCount++
					} else {
						updatedCount++
					}
					continue
				}
				if !isNotFound(err) {
					skippedCount++
					continue
				}
			}

			if err := tx.Create(&product).Error; err == nil {
				createdCount++
			} else {
				skippedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}
