package cmd

type Config struct {
	HTTPPort            string
	DBHost              string
	DBPort              string
	DBUser              string
	DBPassword          string
	DBName              string
	DBSslMode           string
	CardGatewayURL      string
	CardGatewaySecret   string
	WalletGatewayURL    string
	WalletGatewaySecret string
	DispatchCronSpec    string
}
