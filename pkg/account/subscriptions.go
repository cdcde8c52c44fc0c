package account

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"
	"github.com/wqeqwqeq/AzureAgent/pkg/convert"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type Subscription struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	TenantId string `json:"tenantId"`
}

// SubscriptionsService lists subscriptions visible to the credential and
// resolves human-readable subscription names to ids.
type SubscriptionsService struct {
	armClientOptions *arm.ClientOptions
}

func NewSubscriptionsService(armClientOptions *arm.ClientOptions) *SubscriptionsService {
	return &SubscriptionsService{armClientOptions: armClientOptions}
}

func (s *SubscriptionsService) ListSubscriptions(
	ctx context.Context, credential azcore.TokenCredential) ([]Subscription, error) {
	client, err := s.createSubscriptionsClient(credential)
	if err != nil {
		return nil, err
	}

	subscriptions := []Subscription{}
	pager := client.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed getting next page of subscriptions: %w", err)
		}

		for _, subscription := range page.SubscriptionListResult.Value {
			subscriptions = append(subscriptions, Subscription{
				Id:       convert.ToValueWithDefault(subscription.SubscriptionID, ""),
				Name:     convert.ToValueWithDefault(subscription.DisplayName, ""),
				TenantId: convert.ToValueWithDefault(subscription.TenantID, ""),
			})
		}
	}

	sort.Slice(subscriptions, func(i, j int) bool {
		return subscriptions[i].Name < subscriptions[j].Name
	})

	return subscriptions, nil
}

// ResolveName returns the subscription id whose display name matches name,
// case-insensitively. Ambiguous names resolve to the first match in display
// name order.
func (s *SubscriptionsService) ResolveName(
	ctx context.Context, credential azcore.TokenCredential, name string) (string, error) {
	subscriptions, err := s.ListSubscriptions(ctx, credential)
	if err != nil {
		return "", err
	}

	for _, subscription := range subscriptions {
		if strings.EqualFold(subscription.Name, name) {
			return subscription.Id, nil
		}
	}

	return "", fmt.Errorf("%w: no subscription named %q", ErrSubscriptionNotFound, name)
}

func (s *SubscriptionsService) createSubscriptionsClient(
	credential azcore.TokenCredential) (*armsubscriptions.Client, error) {
	client, err := armsubscriptions.NewClient(credential, s.armClientOptions)
	if err != nil {
		return nil, fmt.Errorf("creating subscriptions client: %w", err)
	}

	return client, nil
}
