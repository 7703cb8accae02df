package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/internal/webserver"
	"github.com/vetsoftlabs/vetstore/pkg/common"
)

var employeeRoles = []string{"veterinarian", "groomer", "assistant", "cashier"}

func registerEmployeeRoutes() {
	webserver.ApiGET("/employees", staffOnly(listEmployees))
	webserver.ApiGET("/employees/:id", staffOnly(getEmployee))
	webserver.ApiPOST("/employees", staffOnly(createEmployee))
	webserver.ApiPUT("/employees/:id", staffOnly(updateEmployee))
	webserver.ApiDELETE("/employees/:id", staffOnly(deleteEmployee))
}

func listEmployees(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Employee{})
	if role := strings.TrimSpace(c.QueryParam("role")); role != "" {
		db = db.Where("role = ?", role)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(surname) LIKE ?", like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query employees", err.Error())
	}

	var employees []domain.Employee
	if err := db.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&employees).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query employees", err.Error())
	}
	return paged(c, employees, total, page, pageSize)
}

func getEmployee(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid employee ID", nil)
	}
	var employee domain.Employee
	if err := GetDB(c).Where("id = ?", id).First(&employee).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "EMPLOYEE_NOT_FOUND", "Employee not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query employee", err.Error())
	}
	return ok(c, employee)
}

type employeePayload struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Dni     string `json:"dni"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Role    string `json:"role"`
	Status  string `json:"status"`
	Remark  string `json:"remark"`
}

func createEmployee(c echo.Context) error {
	var payload employeePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse employee parameters", nil)
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Dni = strings.TrimSpace(payload.Dni)
	if payload.Name == "" || payload.Dni == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name and DNI are required", nil)
	}
	if !common.InSlice(payload.Role, employeeRoles) {
		return fail(c, http.StatusBadRequest, "INVALID_ROLE",
			"Role must be one of: "+strings.Join(employeeRoles, ", "), nil)
	}

	var dup domain.Employee
	if err := GetDB(c).Where("dni = ? OR email = ?", payload.Dni, payload.Email).First(&dup).Error; err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_EMPLOYEE", "An employee with this DNI or email already exists", nil)
	}

	employee := domain.Employee{
		ID:        common.UUIDint64(),
		Name:      payload.Name,
		Surname:   payload.Surname,
		Dni:       payload.Dni,
		Email:     strings.ToLower(strings.TrimSpace(payload.Email)),
		Phone:     payload.Phone,
		Role:      payload.Role,
		Status:    common.ENABLED,
		Remark:    payload.Remark,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&employee).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create employee", err.Error())
	}
	oplog(c, "employee.create", "created employee "+employee.Dni)
	return ok(c, employee)
}

func updateEmployee(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid employee ID", nil)
	}
	var payload employeePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse employee parameters", nil)
	}
	var employee domain.Employee
	if err := GetDB(c).Where("id = ?", id).First(&employee).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "EMPLOYEE_NOT_FOUND", "Employee not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query employee", err.Error())
	}

	updates := map[string]interface{}{}
	if payload.Name != "" {
		updates["name"] = strings.TrimSpace(payload.Name)
	}
	if payload.Surname != "" {
		updates["surname"] = payload.Surname
	}
	if payload.Role != "" {
		if !common.InSlice(payload.Role, employeeRoles) {
			return fail(c, http.StatusBadRequest, "INVALID_ROLE",
				"Role must be one of: "+strings.Join(employeeRoles, ", "), nil)
		}
		updates["role"] = payload.Role
	}
	if payload.Status != "" {
		updates["status"] = payload.Status
	}
	if payload.Phone != "" {
		updates["phone"] = payload.Phone
	}
	if payload.Email != "" {
		updates["email"] = strings.ToLower(strings.TrimSpace(payload.Email))
	}
	if payload.Remark != "" {
		updates["remark"] = payload.Remark
	}
	updates["updated_at"] = time.Now()
	if err := GetDB(c).Model(&employee).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update employee", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&employee)
	return ok(c, employee)
}

func deleteEmployee(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid employee ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Employee{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete employee", err.Error())
	}
	oplog(c, "employee.delete", "deleted employee")
	return ok(c, map[string]interface{}{"id": id})
}
