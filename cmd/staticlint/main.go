// Command staticlint набор анализаторов для проверки клиента.
//
// Запуск: go run ./cmd/staticlint ./...
//
// Состав:
//   - все SA-проверки staticcheck и выбранные S-проверки simple;
//   - анализаторы golang.org/x/tools/go/analysis/passes;
//   - bodyclose: незакрытые тела http-ответов apiclient и hx;
//   - enumcase: полнота switch по перечислениям (Section, Region, ErrorKind);
//   - osexitcheck: os.Exit допустим только в функции main пакета main.
package main

import (
	"go/ast"
	"go/types"
	"strings"

	"github.com/MakeNowJust/enumcase"
	"github.com/timakin/bodyclose/passes/bodyclose"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/assign"
	"golang.org/x/tools/go/analysis/passes/atomic"
	"golang.org/x/tools/go/analysis/passes/bools"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
)

// extraChecks проверки упрощений из staticcheck simple
var extraChecks = map[string]bool{
	"S1000": true,
	"S1001": true,
	"S1002": true,
	"S1005": true,
}

func main() {
	multichecker.Main(analyzers()...)
}

func analyzers() []*analysis.Analyzer {
	var checks []*analysis.Analyzer
	for _, v := range staticcheck.Analyzers {
		if strings.HasPrefix(v.Analyzer.Name, "SA") {
			checks = append(checks, v.Analyzer)
		}
	}
	for _, v := range simple.Analyzers {
		if extraChecks[v.Analyzer.Name] {
			checks = append(checks, v.Analyzer)
		}
	}

	checks = append(checks,
		printf.Analyzer,
		shadow.Analyzer,
		structtag.Analyzer,
		assign.Analyzer,
		atomic.Analyzer,
		bools.Analyzer,
		copylock.Analyzer,
		lostcancel.Analyzer,
		unreachable.Analyzer,
		unusedresult.Analyzer,
		errorsas.Analyzer,
		httpresponse.Analyzer,
	)

	checks = append(checks,
		bodyclose.Analyzer,
		enumcase.Analyzer,
		OsExitAnalyzer,
	)
	return checks
}

// OsExitAnalyzer запрещает os.Exit везде, кроме функции main пакета main.
// Остальной код возвращает ошибки, чтобы отработали defer (закрытие хранилища токена, таймеры).
var OsExitAnalyzer = &analysis.Analyzer{
	Name: "osexitcheck",
	Doc:  "check for os.Exit() outside of main function of package main",
	Run:  runOsExit,
}

func runOsExit(pass *analysis.Pass) (interface{}, error) {
	isMainPkg := pass.Pkg.Name() == "main"
	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Body == nil {
				continue
			}
			if isMainPkg && fn.Recv == nil && fn.Name.Name == "main" {
				continue
			}
			ast.Inspect(fn.Body, func(node ast.Node) bool {
				call, ok := node.(*ast.CallExpr)
				if ok && isOsExit(pass, call) {
					pass.Reportf(call.Pos(), "os.Exit() outside of main: return an error instead")
				}
				return true
			})
		}
	}
	return nil, nil
}

func isOsExit(pass *analysis.Pass, call *ast.CallExpr) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Exit" {
		return false
	}
	ident, ok := sel.X.(*ast.Ident)
	if !ok {
		return false
	}
	pkgName, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
	return ok && pkgName.Imported().Path() == "os"
}
