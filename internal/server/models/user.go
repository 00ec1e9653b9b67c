// Серверная модель пользователя
package models

import (
	"time"

	"github.com/google/uuid"
)

// CompanySize — размер компании пользователя (необязательное поле).
type CompanySize string

const (
	CompanySizeOnlyMe    CompanySize = "Somente eu"
	CompanySizeStartup   CompanySize = "Empresa iniciante"
	CompanySize2To10     CompanySize = "2-10"
	CompanySize11To50    CompanySize = "11-50"
	CompanySize51To200   CompanySize = "51-200"
	CompanySize201To500  CompanySize = "201-500"
	CompanySize501To1K   CompanySize = "501-1000"
	CompanySize1KTo5K    CompanySize = "1001-5000"
	CompanySize5KTo10K   CompanySize = "5001-10000"
	CompanySize10KOrMore CompanySize = "10001 ou mais"
)

// CompanySizes — все допустимые значения, в порядке как в форме регистрации.
var CompanySizes = []CompanySize{
	CompanySizeOnlyMe, CompanySizeStartup, CompanySize2To10, CompanySize11To50,
	CompanySize51To200, CompanySize201To500, CompanySize501To1K, CompanySize1KTo5K,
	CompanySize5KTo10K, CompanySize10KOrMore,
}

func (s CompanySize) Valid() bool { return contains(CompanySizes, s) }

// WorkArea — область работы.
type WorkArea string

const (
	WorkAreaIT       WorkArea = "TI"
	WorkAreaBusiness WorkArea = "Negócios"
)

var WorkAreas = []WorkArea{WorkAreaIT, WorkAreaBusiness}

func (a WorkArea) Valid() bool { return contains(WorkAreas, a) }

// Department — отдел.
type Department string

const (
	DepartmentPurchasing Department = "Compras"
	DepartmentHR         Department = "RH"
	DepartmentIT         Department = "TI"
	DepartmentFinance    Department = "Financeiro"
	DepartmentShared     Department = "Serviços Compartilhados"
	DepartmentBizOps     Department = "Operações de Negócios"
	DepartmentSupport    Department = "CS/Suporte"
	DepartmentLegal      Department = "Jurídico"
	DepartmentSales      Department = "Vendas"
	DepartmentMarketing  Department = "Marketing"
	DepartmentProductDev Department = "Desenvolvimento de Produtos"
	DepartmentSupply     Department = "Supply"
	DepartmentFacilities Department = "Facilities"
)

var Departments = []Department{
	DepartmentPurchasing, DepartmentHR, DepartmentIT, DepartmentFinance,
	DepartmentShared, DepartmentBizOps, DepartmentSupport, DepartmentLegal,
	DepartmentSales, DepartmentMarketing, DepartmentProductDev, DepartmentSupply,
	DepartmentFacilities,
}

func (d Department) Valid() bool { return contains(Departments, d) }

// User — запись таблицы users.
//
// Пользователь создаётся неподтверждённым (IsVerified=false) и никогда не удаляется.
// PasswordHash наружу не отдаётся.
type User struct {
	ID                    uuid.UUID
	Name                  string
	Email                 string
	Phone                 string
	CompanyName           *string
	CompanySize           *CompanySize
	WorkArea              WorkArea
	Department            Department
	AcceptedPrivacyPolicy bool
	PasswordHash          string
	IsVerified            bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
