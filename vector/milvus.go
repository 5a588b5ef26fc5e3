// Package vector 提供向量数据库的 VectorStore 适配器。
package vector

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tunelab/tunekit/core"
)

// MilvusStore 是 Milvus 背书的 core.VectorStore 实现。
//
// 查询塑形（排除集编译成布尔表达式、度量算子选择）全部发生在这里，
// 协作方边界之外的代码只见到结构化的 NearestRequest——不存在按行
// 拼接查询语句的调用点。
type MilvusStore struct {
	Address    string
	Username   string
	Password   string
	Database   string
	Collection string
	IDField    string // 曲目 id 字段名，默认 "track_id"
	Timeout    time.Duration

	clientFactory MilvusClientFactory

	mu     sync.Mutex
	client MilvusClient
}

// MilvusOption 配置 MilvusStore。
type MilvusOption func(*MilvusStore)

func WithAuth(username, password string) MilvusOption {
	return func(s *MilvusStore) {
		s.Username = username
		s.Password = password
	}
}

func WithDatabase(database string) MilvusOption {
	return func(s *MilvusStore) { s.Database = database }
}

func WithIDField(field string) MilvusOption {
	return func(s *MilvusStore) { s.IDField = field }
}

func WithTimeout(timeout time.Duration) MilvusOption {
	return func(s *MilvusStore) { s.Timeout = timeout }
}

// WithClientFactory 注入客户端工厂（生产环境注入 SDK 封装，测试注入桩）。
func WithClientFactory(factory MilvusClientFactory) MilvusOption {
	return func(s *MilvusStore) { s.clientFactory = factory }
}

// NewMilvusStore 创建 Milvus 适配器。客户端在首次查询时建连。
func NewMilvusStore(address, collection string, opts ...MilvusOption) *MilvusStore {
	s := &MilvusStore{
		Address:    address,
		Collection: collection,
		Database:   "default",
		IDField:    "track_id",
		Timeout:    30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MilvusStore) initClient(ctx context.Context) (MilvusClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}
	if s.clientFactory == nil {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeNotSupported,
			"milvus client factory not configured")
	}

	client, err := s.clientFactory.NewClient(ctx, s.Address, s.Username, s.Password, s.Database, s.Timeout)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeUnavailable,
			fmt.Sprintf("init milvus client: %v", err))
	}
	s.client = client
	return client, nil
}

// Nearest 实现 core.VectorStore 接口。
func (s *MilvusStore) Nearest(ctx context.Context, req *core.NearestRequest) ([]core.Neighbor, error) {
	if req == nil {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "nearest request is nil")
	}
	if !req.Metric.Valid() {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput,
			"unknown metric: "+string(req.Metric))
	}

	client, err := s.initClient(ctx)
	if err != nil {
		return nil, err
	}

	filter := s.exclusionExpr(req.Exclude)
	ids, distances, err := client.Search(ctx, s.Collection, req.Vector, req.Limit, req.Metric.StoreOperator(), filter)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeUnavailable,
			fmt.Sprintf("milvus search: %v", err))
	}
	if len(ids) != len(distances) {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeInternalError,
			fmt.Sprintf("milvus search: ids/distances length mismatch: %d != %d", len(ids), len(distances)))
	}

	neighbors := make([]core.Neighbor, 0, len(ids))
	for i, id := range ids {
		neighbors = append(neighbors, core.Neighbor{ID: id, Distance: distances[i]})
	}
	return neighbors, nil
}

func (s *MilvusStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

// exclusionExpr 把结构化排除集编译成 Milvus 布尔表达式：
// `track_id not in ["a","b"]`。排除集为空时返回空串（无过滤）。
// id 统一走 strconv.Quote 转义，不存在注入面。
func (s *MilvusStore) exclusionExpr(exclude []string) string {
	if len(exclude) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(exclude))
	for _, id := range exclude {
		if id == "" {
			continue
		}
		quoted = append(quoted, strconv.Quote(id))
	}
	if len(quoted) == 0 {
		return ""
	}
	return fmt.Sprintf("%s not in [%s]", s.IDField, strings.Join(quoted, ","))
}

// 确保实现了接口
var _ core.VectorStore = (*MilvusStore)(nil)
