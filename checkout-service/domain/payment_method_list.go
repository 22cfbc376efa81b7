package domain

import "fmt"

// PaymentProviderRadioField is the form field holding the selected key
const PaymentProviderRadioField = "paymentProviderRadio"

// PaymentMethodResolutionError is returned when a selected value does not
// match any method of the rendered list. It signals a caller bug: the value
// was not produced by this list.
type PaymentMethodResolutionError struct {
	ID      string
	Gateway string
}

func (e *PaymentMethodResolutionError) Error() string {
	return fmt.Sprintf("unable to find payment method with id: %s", e.ID)
}

// PaymentMethodListOptions configures RenderPaymentMethodList
type PaymentMethodListOptions struct {
	// SelectedKey is the current form value; the matching item is pre-selected
	SelectedKey string

	// IsEmbedded and IsUsingMultiShipping are forwarded to every item
	IsEmbedded           bool
	IsUsingMultiShipping bool

	// OnSelect receives the resolved method on a successful Select
	OnSelect func(method *PaymentMethod)

	// OnUnhandledError is not used by the list; it is forwarded to every
	// item for its content renderer to report non-fatal failures
	OnUnhandledError func(err error)
}

// PaymentMethodListItem is one selectable entry of a rendered list
type PaymentMethodListItem struct {
	Value                string
	HTMLID               string
	Method               *PaymentMethod
	Selected             bool
	IsEmbedded           bool
	IsUsingMultiShipping bool
	OnUnhandledError     func(err error)
}

// PaymentMethodList is the result of one render pass over a method snapshot.
// It is immutable once built and safe for concurrent reads.
type PaymentMethodList struct {
	items    []PaymentMethodListItem
	byKey    map[PaymentMethodKey]*PaymentMethod
	byID     map[string]*PaymentMethod
	selected int
	onSelect func(method *PaymentMethod)
}

// RenderPaymentMethodList builds one item per method, in input order. Equal
// methods each get their own item. When several methods share a key the
// first one wins for pre-selection and resolution.
func RenderPaymentMethodList(methods []*PaymentMethod, opts PaymentMethodListOptions) *PaymentMethodList {
	list := &PaymentMethodList{
		items:    make([]PaymentMethodListItem, 0, len(methods)),
		byKey:    make(map[PaymentMethodKey]*PaymentMethod, len(methods)),
		byID:     make(map[string]*PaymentMethod, len(methods)),
		selected: -1,
		onSelect: opts.OnSelect,
	}

	if list.onSelect == nil {
		list.onSelect = func(*PaymentMethod) {}
	}

	for _, method := range methods {
		key := method.Key()
		value := key.String()

		if _, ok := list.byKey[key]; !ok {
			list.byKey[key] = method
		}
		if _, ok := list.byID[method.ID]; !ok {
			list.byID[method.ID] = method
		}

		item := PaymentMethodListItem{
			Value:                value,
			HTMLID:               "radio-" + value,
			Method:               method,
			IsEmbedded:           opts.IsEmbedded,
			IsUsingMultiShipping: opts.IsUsingMultiShipping,
			OnUnhandledError:     opts.OnUnhandledError,
		}

		if list.selected < 0 && opts.SelectedKey != "" && value == opts.SelectedKey {
			item.Selected = true
			list.selected = len(list.items)
		}

		list.items = append(list.items, item)
	}

	return list
}

// Items returns the rendered items in input order
func (l *PaymentMethodList) Items() []PaymentMethodListItem {
	return l.items
}

// Len returns the number of rendered items
func (l *PaymentMethodList) Len() int {
	return len(l.items)
}

// SelectedItem returns the pre-selected item, if any
func (l *PaymentMethodList) SelectedItem() (PaymentMethodListItem, bool) {
	if l.selected < 0 {
		return PaymentMethodListItem{}, false
	}
	return l.items[l.selected], true
}

// Resolve maps a selected value back to its method. A value with a gateway
// must match both id and gateway; a value without one matches on id alone.
func (l *PaymentMethodList) Resolve(value string) (*PaymentMethod, error) {
	key := ParsePaymentMethodKey(value)

	var (
		method *PaymentMethod
		ok     bool
	)
	if key.HasGateway() {
		method, ok = l.byKey[key]
	} else {
		method, ok = l.byID[key.ID]
	}

	if !ok {
		return nil, &PaymentMethodResolutionError{ID: key.ID, Gateway: key.Gateway}
	}
	return method, nil
}

// Select resolves value and hands the method to OnSelect. OnSelect is not
// called when resolution fails.
func (l *PaymentMethodList) Select(value string) error {
	method, err := l.Resolve(value)
	if err != nil {
		return err
	}

	l.onSelect(method)
	return nil
}
