package afm

// ClassifyInterfaces validates the declared interface list and groups it into
// an InterfaceSet with field defaults applied. An empty or absent list
// defaults to a single console chat interface. More than one interface of the
// same type is a configuration error.
func ClassifyInterfaces(interfaces []Interface) (*InterfaceSet, error) {
	if len(interfaces) == 0 {
		return &InterfaceSet{
			Console: &ConsoleChat{Signature: (*Signature)(nil).withDefaults()},
		}, nil
	}

	set := &InterfaceSet{}

	for i := range interfaces {
		iface := &interfaces[i]
		switch iface.Type {
		case InterfaceTypeConsoleChat:
			if set.Console != nil {
				return nil, NewInterfaceConfigError(ErrMsgDuplicateInterface)
			}
			set.Console = &ConsoleChat{
				Signature: iface.Signature.withDefaults(),
			}

		case InterfaceTypeWebChat:
			if set.Web != nil {
				return nil, NewInterfaceConfigError(ErrMsgDuplicateInterface)
			}
			set.Web = &WebChat{
				Signature: iface.Signature.withDefaults(),
				Exposure:  iface.Exposure.withDefaultPath(DefaultChatPath),
			}

		case InterfaceTypeWebhook:
			if set.Webhook != nil {
				return nil, NewInterfaceConfigError(ErrMsgDuplicateInterface)
			}
			if iface.Subscription == nil {
				return nil, NewInterfaceConfigError(ErrMsgWebhookNoSubscription)
			}
			if err := iface.Subscription.Authentication.Validate(); err != nil {
				return nil, err
			}
			set.Webhook = &Webhook{
				Prompt:       iface.Prompt,
				Signature:    iface.Signature.withDefaults(),
				Exposure:     iface.Exposure.withDefaultPath(DefaultWebhookPath),
				Subscription: *iface.Subscription,
			}

		default:
			return nil, NewUnknownInterfaceTypeError(iface.Type)
		}
	}

	return set, nil
}
