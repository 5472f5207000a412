package gateway

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type MockDriver struct {
	QueriesExecuted []string
	QueryParams     map[string]interface{}
	// Results is keyed by query text; unknown queries return an empty result.
	Results map[string]neo4j.EagerResult
	Err     error
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.QueriesExecuted = append(m.QueriesExecuted, query)
	m.QueryParams = params
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	if res, ok := m.Results[query]; ok {
		return res, nil
	}
	return neo4j.EagerResult{}, nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}
