//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "levelc"
	mainPath   = "./cmd/levelc"
)

// Default target to run when none is specified
var Default = Build

// Build builds the levelc binary
func Build() error {
	fmt.Println("Building", binaryName, "...")
	return sh.RunV("go", "build", "-o", binaryName, mainPath)
}

// Install installs levelc into GOPATH/bin
func Install() error {
	mg.Deps(Test)
	fmt.Println("Installing", binaryName, "...")
	return sh.RunV("go", "install", mainPath)
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// TestRace runs all tests with the race detector
func TestRace() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Fmt formats the code
func Fmt() error {
	return sh.RunV("gofmt", "-s", "-w", ".")
}

// Clean removes the binary
func Clean() error {
	fmt.Println("Cleaning...")
	return os.RemoveAll(filepath.Join(".", binaryName))
}
