package cloudrun

import (
	"fmt"
	"strconv"

	"github.com/pulumi/pulumi-docker/sdk/v4/go/docker"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/cloudrun"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/serviceaccount"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/GregMSThompson/budget-report/infra/common"
	"github.com/GregMSThompson/budget-report/infra/kms"
	"github.com/GregMSThompson/budget-report/infra/secret"
)

// token key modes, matching the api's cipher selection
const (
	tokenKeyKMS    = "kms"
	tokenKeySecret = "secret"
	tokenKeyStatic = "key"

	tokenKeySecretID = "budget-report-token-key"
)

func SetupCloudRun(ctx *pulumi.Context, prov *gcp.Provider, keyName pulumi.StringOutput, res ...pulumi.Resource) (*cloudrun.Service, error) {
	img, err := buildApiImage(ctx, res...)
	if err != nil {
		return nil, err
	}

	srv, err := enableCloudRun(ctx, prov)
	if err != nil {
		return nil, err
	}

	apiSA, err := createServiceAccount(ctx, prov)
	if err != nil {
		return nil, err
	}

	envs, deps, err := tokenKeyEnv(ctx, prov, apiSA, keyName)
	if err != nil {
		return nil, err
	}

	svc, err := createCloudRunService(ctx, img, apiSA, envs, prov, append(deps, srv)...)
	if err != nil {
		return nil, err
	}

	err = setIAMAccessPolicy(ctx, svc, prov)
	if err != nil {
		return nil, err
	}

	return svc, nil
}

func buildApiImage(ctx *pulumi.Context, res ...pulumi.Resource) (*docker.Image, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")

	hash, err := common.GenerateHash("..")
	if err != nil {
		return nil, err
	}

	return docker.NewImage(ctx, "apiImage", &docker.ImageArgs{
		Build: docker.DockerBuildArgs{
			Platform:   pulumi.String("linux/amd64"),
			Context:    pulumi.String(".."),                    // build from repo root
			Dockerfile: pulumi.String("../cmd/api/Dockerfile"), // Dockerfile path relative to repo root
		},
		ImageName: pulumi.String(fmt.Sprintf("%s-docker.pkg.dev/%s/api/budget-report:%s", region, projectID, hash)),
	},
		pulumi.DependsOn(res),
	)
}

func enableCloudRun(ctx *pulumi.Context, prov *gcp.Provider) (*projects.Service, error) {
	return projects.NewService(ctx, "cloudRunService", &projects.ServiceArgs{
		Service: pulumi.String("run.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
}

func serviceAccountMember(apiSA *serviceaccount.Account) pulumi.StringOutput {
	return apiSA.Email.ApplyT(func(email string) string {
		return fmt.Sprintf("serviceAccount:%s", email)
	}).(pulumi.StringOutput)
}

func createServiceAccount(ctx *pulumi.Context, prov *gcp.Provider) (*serviceaccount.Account, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")

	apiSA, err := serviceaccount.NewAccount(ctx, "apiServiceAccount", &serviceaccount.AccountArgs{
		AccountId:   pulumi.String("budget-report-api"),
		DisplayName: pulumi.String("Budget Report API"),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	_, err = projects.NewIAMMember(ctx, "firestoreAccess", &projects.IAMMemberArgs{
		Role:    pulumi.String("roles/datastore.user"), // session documents
		Member:  serviceAccountMember(apiSA),
		Project: pulumi.String(projectID),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	return apiSA, nil
}

// tokenKeyEnv picks how the api seals upstream tokens. "kms" uses the
// provisioned crypto key, "secret" lets the api create its own key in
// Secret Manager, "key" stores a configured key as a secret.
func tokenKeyEnv(ctx *pulumi.Context, prov *gcp.Provider, apiSA *serviceaccount.Account, keyName pulumi.StringOutput) (cloudrun.ServiceTemplateSpecContainerEnvArray, []pulumi.Resource, error) {
	crCfg := config.New(ctx, "cloudrun")
	mode := crCfg.Get("tokenKeyMode")
	if mode == "" {
		mode = tokenKeyKMS
	}

	switch mode {
	case tokenKeyKMS:
		if err := kms.GrantCryptoKeyAccess(ctx, prov, keyName, serviceAccountMember(apiSA)); err != nil {
			return nil, nil, err
		}
		return cloudrun.ServiceTemplateSpecContainerEnvArray{
			&cloudrun.ServiceTemplateSpecContainerEnvArgs{
				Name:  pulumi.String("KMSKEYNAME"),
				Value: keyName,
			},
		}, nil, nil

	case tokenKeySecret:
		svc, err := secret.SetupSecretManager(ctx, prov, apiSA, mode == tokenKeySecret)
		if err != nil {
			return nil, nil, err
		}
		return cloudrun.ServiceTemplateSpecContainerEnvArray{
			&cloudrun.ServiceTemplateSpecContainerEnvArgs{
				Name:  pulumi.String("TOKENKEYSECRET"),
				Value: pulumi.String(tokenKeySecretID),
			},
		}, []pulumi.Resource{svc}, nil

	case tokenKeyStatic:
		svc, err := secret.SetupSecretManager(ctx, prov, apiSA, mode == tokenKeySecret)
		if err != nil {
			return nil, nil, err
		}
		name, err := secret.AddSecret(ctx, "tokenEncKeySecret", "tokenEncKey", crCfg.RequireSecret("tokenEncKey"))
		if err != nil {
			return nil, nil, err
		}
		return cloudrun.ServiceTemplateSpecContainerEnvArray{
			&cloudrun.ServiceTemplateSpecContainerEnvArgs{
				Name: pulumi.String("TOKENENCKEY"),
				ValueFrom: &cloudrun.ServiceTemplateSpecContainerEnvValueFromArgs{
					SecretKeyRef: &cloudrun.ServiceTemplateSpecContainerEnvValueFromSecretKeyRefArgs{
						Name: name,
						Key:  pulumi.String("latest"),
					},
				},
			},
		}, []pulumi.Resource{svc}, nil

	default:
		return nil, nil, fmt.Errorf("unknown cloudrun:tokenKeyMode %q", mode)
	}
}

func createCloudRunService(ctx *pulumi.Context,
	img *docker.Image,
	apiSA *serviceaccount.Account,
	keyEnvs cloudrun.ServiceTemplateSpecContainerEnvArray,
	prov *gcp.Provider,
	res ...pulumi.Resource) (*cloudrun.Service, error) {
	gcpCfg := config.New(ctx, "gcp")
	crCfg := config.New(ctx, "cloudrun")
	appCfg := config.New(ctx, "app")

	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")
	minScale := crCfg.Require("minScale")
	maxScale := crCfg.Require("maxScale")
	cpu := crCfg.Require("cpu")
	memory := crCfg.Require("memory")
	concurrency := crCfg.Require("concurrency")
	logLevel := crCfg.Require("logLevel")
	timeout, _ := strconv.Atoi(crCfg.Require("timeout"))

	env := func(name, value string) *cloudrun.ServiceTemplateSpecContainerEnvArgs {
		return &cloudrun.ServiceTemplateSpecContainerEnvArgs{
			Name:  pulumi.String(name),
			Value: pulumi.String(value),
		}
	}

	envs := cloudrun.ServiceTemplateSpecContainerEnvArray{
		env("PROJECTID", projectID),
		env("REGION", region),
		env("LOGLEVEL", logLevel),
		env("ENVIRONMENT", "production"),
		env("SESSIONBACKEND", "firestore"),
		env("CLIENTORIGIN", appCfg.Require("clientOrigin")),
		env("PUBLICBASEURL", appCfg.Require("publicBaseUrl")),
		env("TIMEZONE", appCfg.Get("timezone")),
		env("FLAGGROUPS", appCfg.Get("flagGroups")),
	}
	envs = append(envs, keyEnvs...)

	return cloudrun.NewService(ctx, "apiService", &cloudrun.ServiceArgs{
		Location: pulumi.String(region),

		Template: &cloudrun.ServiceTemplateArgs{

			Metadata: &cloudrun.ServiceTemplateMetadataArgs{
				// ---- AUTOSCALING + INSTANCE SIZE ----
				Annotations: pulumi.StringMap{
					// Autoscaling bounds
					"autoscaling.knative.dev/minScale": pulumi.String(minScale),
					"autoscaling.knative.dev/maxScale": pulumi.String(maxScale),

					// Instance sizing
					"run.googleapis.com/cpu":    pulumi.String(cpu),
					"run.googleapis.com/memory": pulumi.String(memory),

					// Allow throttling when idle (reduces cost)
					"run.googleapis.com/cpu-throttling": pulumi.String("true"),

					// Set the number of concurrent requests per container
					"run.googleapis.com/container-concurrency": pulumi.String(concurrency),
				},
			},

			Spec: &cloudrun.ServiceTemplateSpecArgs{
				ServiceAccountName: apiSA.Email,
				TimeoutSeconds:     pulumi.Int(timeout),

				Containers: cloudrun.ServiceTemplateSpecContainerArray{
					&cloudrun.ServiceTemplateSpecContainerArgs{
						Image: img.ImageName,
						Ports: cloudrun.ServiceTemplateSpecContainerPortArray{
							&cloudrun.ServiceTemplateSpecContainerPortArgs{
								ContainerPort: pulumi.Int(8080),
							},
						},
						Envs: envs,
					},
				},
			},
		},
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}

// The api authenticates its own callers with the session cookie.
func setIAMAccessPolicy(ctx *pulumi.Context, svc *cloudrun.Service, prov *gcp.Provider) error {
	gcpCfg := config.New(ctx, "gcp")
	region := gcpCfg.Require("region")

	_, err := cloudrun.NewIamMember(ctx, "publicInvoker", &cloudrun.IamMemberArgs{
		Service:  svc.Name,
		Location: pulumi.String(region),
		Role:     pulumi.String("roles/run.invoker"),
		Member:   pulumi.String("allUsers"),
	},
		pulumi.Provider(prov),
	)
	return err
}
