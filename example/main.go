package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/go-logr/stdr"

	"github.com/mstgnz/gfactory"
)

type DGetIntegers func() []int
type DGetStrings func() []string

// GetOneToTen returns the integers 1 through 10
func GetOneToTen() []int {
	fmt.Println("GetOneToTen called")
	out := make([]int, 10)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// GetIntegersAsStrings wraps an integer source
func GetIntegersAsStrings(input DGetIntegers) DGetStrings {
	fmt.Println("GetIntegersAsStrings called")
	return func() []string {
		in := input()
		out := make([]string, len(in))
		for i, v := range in {
			out[i] = strconv.Itoa(v)
		}
		return out
	}
}

func main() {
	stdr.SetVerbosity(1)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags)).WithName("example")

	sources := gfactory.NewFactoryType("StringSources").
		Func("GetIntegersAsStrings", GetIntegersAsStrings)

	c := gfactory.New(gfactory.WithLogger(logger))
	c.MustRegister(
		gfactory.Component[DGetIntegers]().Instance(DGetIntegers(GetOneToTen)),
		gfactory.Component[DGetStrings]().ImplementedBy(sources).Named("GetIntegersAsStrings").LifestyleTransient(),
	)

	getStrings, err := gfactory.Resolve[DGetStrings](c)
	if err != nil {
		color.Red("resolve failed: %v", err)
		os.Exit(1)
	}
	defer c.Release(getStrings)

	color.Green("Resolved DGetStrings")
	for _, s := range getStrings() {
		fmt.Print(s, " ")
	}
	fmt.Println()

	c.ListComponents()
}
