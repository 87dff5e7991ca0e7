package matrix

import (
	"fmt"
	"path/filepath"
	"strings"
)

// titleCase uppercases the first letter of a package name, matching the
// GAP convention for the package's global function prefix
// (semigroups -> SemigroupsTestInstall and so on).
func titleCase(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// loadStmt returns the statement loading a package in default mode.
func loadStmt(name string) string {
	return fmt.Sprintf("LoadPackage(%q, false);", name)
}

// loadOnlyNeededStmt returns the statement loading a package with only
// its needed dependencies.
func loadOnlyNeededStmt(name string) string {
	return fmt.Sprintf("LoadPackage(%q, false : OnlyNeeded);", name)
}

// validateStmt returns the statement validating the package metadata file.
func validateStmt(pkgDir, name string) string {
	return fmt.Sprintf("ValidatePackageInfo(%q);", filepath.Join(pkgDir, name, "PackageInfo.g"))
}

// suiteStmt returns the statement invoking one of the package's own test
// suite entry points, e.g. suiteStmt("semigroups", "TestInstall") is
// "SemigroupsTestInstall();".
func suiteStmt(name, suite string) string {
	return titleCase(name) + suite + "();"
}

// manualExamplesStmt returns the statements extracting and running the
// manual examples for one chapter file of the reference manual.
func manualExamplesStmt(gapRoot, xml string) string {
	docRef := filepath.Join(gapRoot, "doc", "ref")
	return fmt.Sprintf("ex := ExtractExamples(%q, %q, [ %q ], \"Section\"); RunExamples(ex);", docRef, xml, xml)
}

// quickTestStmts returns the fixed list of targeted regression tests and
// manual-example extractions run as the "GAP quick tests" step.
func quickTestStmts(gapRoot string) []string {
	tst := func(rel string) string {
		return fmt.Sprintf("Test(%q);", filepath.Join(gapRoot, "tst", rel))
	}

	stmts := []string{
		tst("testinstall/trans.tst"),
		tst("testinstall/pperm.tst"),
		tst("testinstall/semigrp.tst"),
		tst("teststandard/reesmat.tst"),
	}
	for _, xml := range []string{"trans.xml", "pperm.xml", "invsgp.xml", "reesmat.xml", "mgmadj.xml"} {
		stmts = append(stmts, manualExamplesStmt(gapRoot, xml))
	}
	stmts = append(stmts,
		tst("teststandard/bugfix.tst"),
		fmt.Sprintf("Read(%q);", filepath.Join(gapRoot, "tst", "testinstall.g")),
	)
	return stmts
}
