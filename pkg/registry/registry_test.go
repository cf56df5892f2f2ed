// pkg/registry/registry_test.go
package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shippedRegistryPath = "../../configs/activity-registry.json"

func TestLoadRegistry_ShippedCatalog(t *testing.T) {
	reg, err := LoadRegistry(shippedRegistryPath)
	require.NoError(t, err)

	require.Len(t, reg.Activities, 6)

	taskTypes := make(map[string]bool)
	for _, activity := range reg.Activities {
		assert.NotEmpty(t, activity.ID)
		assert.NotEmpty(t, activity.DisplayName)
		assert.NotEmpty(t, activity.Category)
		assert.NotEmpty(t, activity.ErrorCodes, activity.ID)
		taskTypes[activity.TaskType] = true
	}

	for _, taskType := range []string{
		"validate-buyer-profile",
		"check-assessment-cache",
		"assess-buyer-risk",
		"create-assessment-record",
		"index-assessment-result",
		"send-risk-alert",
	} {
		assert.True(t, taskTypes[taskType], "missing task type %s", taskType)
	}
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	_, err := LoadRegistry("does-not-exist.json")
	assert.Error(t, err)
}

func TestFindByTaskType(t *testing.T) {
	reg, err := LoadRegistry(shippedRegistryPath)
	require.NoError(t, err)

	activity, found := reg.FindByTaskType("assess-buyer-risk")
	require.True(t, found)
	assert.Equal(t, "assessment.buyer.assess-risk", activity.ID)
	assert.Contains(t, activity.ErrorCodes, "ASSESSMENT_FAILED")

	_, found = reg.FindByTaskType("no-such-task")
	assert.False(t, found)
}

func TestBuyerProfileSchema(t *testing.T) {
	schema := BuyerProfileSchema()

	assert.Equal(t, "object", schema["type"])

	required, ok := schema["required"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, required, "PROPERTY_PRICE")
	assert.Contains(t, required, "PURCHASER_NAME_FROM_APS")

	properties, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, properties, "CO_SIGNER_LIST_FROM_APS")
}
