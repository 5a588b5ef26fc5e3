// Package dsl 提供基于 CEL (Common Expression Language) 的候选规则
// 解释器，供配置驱动的规则过滤使用。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/tunelab/tunekit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("track", cel.DynType),
			cel.Variable("label", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Eval 是候选规则解释器：表达式编译一次，之后对任意候选反复求值。
//
// 可用变量：
//   - item：id / score / similarity / neg_similarity / distance
//   - track：id / title / album / year / duration_seconds / artist（主唱名）
//   - label：候选的全部 Label Value，按 key 索引
//
// 示例：
//   - `track.year >= 1990` → 只保留 1990 年之后的曲目
//   - `item.similarity > 0.6 && track.album != ""` → 高相似且专辑已知
//   - `label.recall_metric == "cosine"` → 按召回度量筛选
type Eval struct {
	expr string
	prg  cel.Program
}

// NewEval 编译一条规则表达式。表达式必须产出布尔值。
func NewEval(expr string) (*Eval, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("dsl: init cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("dsl: compile %q: %w", expr, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("dsl: program %q: %w", expr, err)
	}

	return &Eval{expr: expr, prg: prg}, nil
}

// Expr 返回原始表达式。
func (e *Eval) Expr() string { return e.expr }

// Match 对单个候选求值。表达式产出非布尔值时返回错误。
func (e *Eval) Match(item *core.Item) (bool, error) {
	out, _, err := e.prg.Eval(map[string]any{
		"item":  itemVars(item),
		"track": trackVars(item),
		"label": labelVars(item),
	})
	if err != nil {
		return false, fmt.Errorf("dsl: eval %q: %w", e.expr, err)
	}

	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("dsl: expression %q did not evaluate to bool", e.expr)
	}
	return b, nil
}

func itemVars(item *core.Item) map[string]any {
	if item == nil {
		return map[string]any{}
	}
	return map[string]any{
		"id":             item.ID,
		"score":          item.Score,
		"similarity":     item.Similarity,
		"neg_similarity": item.NegSimilarity,
		"distance":       item.Distance,
	}
}

func trackVars(item *core.Item) map[string]any {
	if item == nil || item.Track == nil {
		return map[string]any{}
	}
	tr := item.Track
	artist := ""
	if primary, ok := tr.PrimaryArtist(); ok {
		artist = primary.Name
	}
	return map[string]any{
		"id":               tr.ID,
		"title":            tr.Title,
		"album":            tr.Album,
		"year":             tr.Year,
		"duration_seconds": tr.Duration.Seconds(),
		"artist":           artist,
	}
}

func labelVars(item *core.Item) map[string]any {
	if item == nil || len(item.Labels) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(item.Labels))
	for k, lbl := range item.Labels {
		out[k] = lbl.Value
	}
	return out
}
