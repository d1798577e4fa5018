package gfactory_test

import (
	"strconv"

	"github.com/mstgnz/gfactory"
)

type DGetIntegers func() []int
type DGetStrings func() []string

func GetOneToTen() []int {
	out := make([]int, 10)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func GetOnePlusEach(input DGetIntegers) DGetIntegers {
	return func() []int {
		in := input()
		out := make([]int, len(in))
		for i, v := range in {
			out[i] = v + 1
		}
		return out
	}
}

func GetIntegersAsStrings(input DGetIntegers) DGetStrings {
	return func() []string {
		in := input()
		out := make([]string, len(in))
		for i, v := range in {
			out[i] = strconv.Itoa(v)
		}
		return out
	}
}

func integerSources() *gfactory.FactoryType {
	return gfactory.NewFactoryType("IntegerSources").
		Func("GetOneToTen", GetOneToTen).
		Func("GetOnePlusEach", GetOnePlusEach, gfactory.WithParamNames("input"))
}

func stringSources() *gfactory.FactoryType {
	return gfactory.NewFactoryType("StringSources").
		Func("GetIntegersAsStrings", GetIntegersAsStrings, gfactory.WithParamNames("input"))
}

// ServiceA depends on ServiceB
type ServiceA struct {
	serviceB *ServiceB
}

func NewServiceA(serviceB *ServiceB) *ServiceA {
	return &ServiceA{serviceB: serviceB}
}

// ServiceB depends on ServiceA (creating a cycle)
type ServiceB struct {
	serviceA *ServiceA
}

func NewServiceB(serviceA *ServiceA) *ServiceB {
	return &ServiceB{serviceA: serviceA}
}

type Database struct {
	connection string
}

func NewDatabase() *Database {
	return &Database{connection: "localhost:5432"}
}

type Repository struct {
	db *Database
}

func NewRepository(db *Database) *Repository {
	return &Repository{db: db}
}

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func appFactories() *gfactory.FactoryType {
	return gfactory.NewFactoryType("App").
		Func("NewDatabase", NewDatabase).
		Func("NewRepository", NewRepository, gfactory.WithParamNames("db")).
		Func("NewService", NewService, gfactory.WithParamNames("repo"))
}
