package template

import (
	"fmt"
	"strings"
)

type obj = map[string]interface{}
type list = []interface{}

// Logical ids referenced across resources
const (
	ProjectKeyID       = "ProjectKey"
	InputBucketID      = "InputBucket"
	OutputBucketID     = "OutputBucket"
	RepositoryID       = "Repository"
	ImageRepositoryID  = "ImageRepository"
	BuildProjectID     = "BuildProject"
	BuildRoleID        = "CodeBuildServiceRole"
	PipelineRoleID     = "CodepipelineExecutionRole"
	LambdaRoleID       = "LambdaExecutionRole"
	DispatchFunctionID = "DispatchFunction"
	TriggerRuleID      = "PipelineTriggerRule"
	TriggerRoleID      = "PipelineTriggerRole"
	PipelineID         = "AppPipeline"

	MemorySizeParam = "LambdaMemorySize"
	TimeoutParam    = "LambdaTimeout"
)

// Params name the project being hydrated
type Params struct {
	Project          string // "cloudMlPipeline"
	AccountID        string
	Region           string
	Branch           string
	FunctionName     string
	CodeBucket       string // bucket holding the dispatcher bundle
	CodeKey          string
	AppBundle        string // build output artifact the dispatcher looks for
	TrainingImage    string
	SageMakerRoleARN string
}

func (p Params) withDefaults() Params {
	if p.Branch == "" {
		p.Branch = "master"
	}
	if p.FunctionName == "" {
		p.FunctionName = "sageDispatch"
	}
	if p.CodeBucket == "" {
		p.CodeBucket = strings.ToLower(p.AccountID + "lambda")
	}
	if p.CodeKey == "" {
		p.CodeKey = "dispatcher.zip"
	}
	if p.AppBundle == "" {
		p.AppBundle = "MyApp"
	}
	return p
}

func (p Params) validate() error {
	switch {
	case p.Project == "":
		return fmt.Errorf("project is required")
	case p.AccountID == "":
		return fmt.Errorf("account id is required")
	case p.Region == "":
		return fmt.Errorf("region is required")
	case p.SageMakerRoleARN == "":
		return fmt.Errorf("sagemaker role ARN is required")
	}
	return nil
}

func (p Params) prefix() string { return p.AccountID + p.Project }

// InputBucketName is the lowercased "<account><project>Input"
func (p Params) InputBucketName() string { return strings.ToLower(p.prefix() + "Input") }

// OutputBucketName is the lowercased "<account><project>Output"
func (p Params) OutputBucketName() string { return strings.ToLower(p.prefix() + "Output") }

func (p Params) PipelineName() string   { return p.prefix() + "Pipeline" }
func (p Params) RepositoryName() string { return p.prefix() + "Repo" }
func (p Params) BuildName() string      { return p.prefix() + "Build" }
func (p Params) ImageRepoName() string  { return strings.ToLower(p.Project) }

func (p Params) artifactStoreBucket() string {
	return "codepipeline-" + p.Region + "-" + p.AccountID
}

// lambdaMemoryValues are the sizes a function may be given, 128 to 3008 MB in 64 MB steps
func lambdaMemoryValues() []string {
	var values []string
	for mb := 128; mb <= 3008; mb += 64 {
		values = append(values, fmt.Sprint(mb))
	}
	return values
}

// Build assembles the full pipeline stack
func Build(params Params) (*Template, error) {
	p := params.withDefaults()
	if err := p.validate(); err != nil {
		return nil, err
	}

	t := New("This template hydrates a machine learning pipeline.")
	keyArn := GetAtt(ProjectKeyID, "Arn")
	pipelineArn := Join(":", "arn:aws:codepipeline", p.Region, p.AccountID, p.PipelineName())

	t.AddParameter(MemorySizeParam, Parameter{
		Type:          "Number",
		Description:   "Amount of memory to allocate to the Lambda Function",
		Default:       "128",
		AllowedValues: lambdaMemoryValues(),
	})
	t.AddParameter(TimeoutParam, Parameter{
		Type:        "Number",
		Description: "Timeout in seconds for the Lambda function",
		Default:     "60",
	})

	t.AddResource(ProjectKeyID, Resource{
		Type: "AWS::KMS::Key",
		Properties: obj{
			"Description":       p.Project + "Key",
			"Enabled":           true,
			"EnableKeyRotation": true,
			"KeyPolicy": policy("project_key", obj{
				"Sid":       "Enable IAM User Permissions",
				"Effect":    "Allow",
				"Principal": obj{"AWS": "arn:aws:iam::" + p.AccountID + ":root"},
				"Action":    "kms:*",
				"Resource":  "*",
			}),
		},
	})

	encryption := obj{
		"ServerSideEncryptionConfiguration": list{
			obj{"ServerSideEncryptionByDefault": obj{
				"SSEAlgorithm":   "aws:kms",
				"KMSMasterKeyID": keyArn,
			}},
		},
	}
	for id, name := range map[string]string{
		InputBucketID:  p.InputBucketName(),
		OutputBucketID: p.OutputBucketName(),
	} {
		t.AddResource(id, Resource{
			Type: "AWS::S3::Bucket",
			Properties: obj{
				"AccessControl":    "Private",
				"BucketName":       name,
				"BucketEncryption": encryption,
			},
		})
	}

	t.AddResource(RepositoryID, Resource{
		Type: "AWS::CodeCommit::Repository",
		Properties: obj{
			"RepositoryName":        p.RepositoryName(),
			"RepositoryDescription": "ML repo",
		},
	})

	t.AddResource(ImageRepositoryID, Resource{
		Type: "AWS::ECR::Repository",
		Properties: obj{
			"RepositoryName": p.ImageRepoName(),
		},
	})

	addRoles(t, p, keyArn, pipelineArn)

	t.AddResource(BuildProjectID, Resource{
		Type: "AWS::CodeBuild::Project",
		Properties: obj{
			"Name":          p.BuildName(),
			"ServiceRole":   GetAtt(BuildRoleID, "Arn"),
			"EncryptionKey": keyArn,
			"Source":        obj{"Type": "CODEPIPELINE"},
			"Artifacts":     obj{"Type": "CODEPIPELINE"},
			"Environment": obj{
				"Type":           "LINUX_CONTAINER",
				"ComputeType":    "BUILD_GENERAL1_SMALL",
				"Image":          "aws/codebuild/standard:7.0",
				"PrivilegedMode": true,
				"EnvironmentVariables": list{
					obj{"Name": "IMAGE_REPO_NAME", "Value": Ref(ImageRepositoryID)},
					obj{"Name": "AWS_ACCOUNT_ID", "Value": p.AccountID},
				},
			},
		},
	})

	t.AddResource(DispatchFunctionID, Resource{
		Type: "AWS::Lambda::Function",
		Properties: obj{
			"FunctionName": p.FunctionName,
			"Code":         obj{"S3Bucket": p.CodeBucket, "S3Key": p.CodeKey},
			"Handler":      "bootstrap",
			"Runtime":      "provided.al2023",
			"Role":         GetAtt(LambdaRoleID, "Arn"),
			"MemorySize":   Ref(MemorySizeParam),
			"Timeout":      Ref(TimeoutParam),
			"Environment": obj{"Variables": obj{
				"APP_BUNDLE":         p.AppBundle,
				"TRAINING_IMAGE":     p.TrainingImage,
				"SAGEMAKER_ROLE_ARN": p.SageMakerRoleARN,
				"INPUT_BUCKET":       Join("", "s3://", Ref(InputBucketID), "/"),
				"OUTPUT_BUCKET":      Join("", "s3://", Ref(OutputBucketID), "/"),
				"BUCKET_KEY_ARN":     keyArn,
				"CODE_COMMIT_REPO":   p.RepositoryName(),
				"CODE_COMMIT_BRANCH": p.Branch,
			}},
		},
	})

	t.AddResource(PipelineID, Resource{
		Type: "AWS::CodePipeline::Pipeline",
		Properties: obj{
			"Name":    p.PipelineName(),
			"RoleArn": GetAtt(PipelineRoleID, "Arn"),
			"ArtifactStore": obj{
				"Type":          "S3",
				"Location":      p.artifactStoreBucket(),
				"EncryptionKey": obj{"Id": keyArn, "Type": "KMS"},
			},
			"Stages": list{
				stage("Source", action("Source", "Source", "CodeCommit", obj{
					"PollForSourceChanges": "false",
					"BranchName":           p.Branch,
					"RepositoryName":       p.RepositoryName(),
				}, "", "source_action_output")),
				stage("Build", action("Build", "Build", "CodeBuild", obj{
					"ProjectName": Ref(BuildProjectID),
				}, "source_action_output", p.AppBundle)),
				stage("Train", action("Train", "Invoke", "Lambda", obj{
					"FunctionName": Ref(DispatchFunctionID),
				}, p.AppBundle, "")),
			},
		},
	})

	// Source polling is off; repository pushes start the pipeline.
	t.AddResource(TriggerRuleID, Resource{
		Type: "AWS::Events::Rule",
		Properties: obj{
			"EventPattern": obj{
				"source":      list{"aws.codecommit"},
				"detail-type": list{"CodeCommit Repository State Change"},
				"resources":   list{GetAtt(RepositoryID, "Arn")},
				"detail": obj{
					"event":         list{"referenceCreated", "referenceUpdated"},
					"referenceType": list{"branch"},
					"referenceName": list{p.Branch},
				},
			},
			"Targets": list{
				obj{
					"Arn":     pipelineArn,
					"Id":      "codepipeline-" + p.PipelineName(),
					"RoleArn": GetAtt(TriggerRoleID, "Arn"),
				},
			},
		},
	})

	t.AddOutput(InputBucketID, Output{Description: "Name of input S3 bucket", Value: Ref(InputBucketID)})
	t.AddOutput(OutputBucketID, Output{Description: "Name of output S3 bucket", Value: Ref(OutputBucketID)})
	t.AddOutput(RepositoryID, Output{Description: "ML repo", Value: Ref(RepositoryID)})
	t.AddOutput(ImageRepositoryID, Output{Description: "Training image repository", Value: Ref(ImageRepositoryID)})

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func addRoles(t *Template, p Params, keyArn, pipelineArn obj) {
	decrypt := obj{"Effect": "Allow", "Action": list{"kms:Decrypt", "kms:GenerateDataKey"}, "Resource": keyArn}
	bucketObjects := list{
		Join("", GetAtt(InputBucketID, "Arn"), "/*"),
		Join("", GetAtt(OutputBucketID, "Arn"), "/*"),
	}
	artifactObjects := "arn:aws:s3:::" + p.artifactStoreBucket() + "/*"

	t.AddResource(PipelineRoleID, Resource{
		Type: "AWS::IAM::Role",
		Properties: role("codepipeline.amazonaws.com", PipelineRoleID,
			decrypt,
			obj{
				"Effect":   "Allow",
				"Action":   list{"lambda:InvokeFunction", "lambda:ListFunctions"},
				"Resource": list{GetAtt(DispatchFunctionID, "Arn")},
			},
			obj{
				"Effect": "Allow",
				"Action": list{
					"s3:ListBucket", "s3:GetBucketPolicy", "s3:GetObject",
					"s3:GetObjectAcl", "s3:PutObject", "s3:PutObjectAcl", "s3:DeleteObject",
				},
				"Resource": append(list{artifactObjects}, bucketObjects...),
			},
			obj{
				"Effect": "Allow",
				"Action": list{
					"codecommit:CancelUploadArchive", "codecommit:GetBranch", "codecommit:GetCommit",
					"codecommit:GetUploadArchiveStatus", "codecommit:UploadArchive",
				},
				"Resource": list{GetAtt(RepositoryID, "Arn")},
			},
			obj{
				"Effect":   "Allow",
				"Action":   list{"codebuild:BatchGetBuilds", "codebuild:StartBuild"},
				"Resource": "*",
			},
		),
	})

	t.AddResource(BuildRoleID, Resource{
		Type: "AWS::IAM::Role",
		Properties: role("codebuild.amazonaws.com", BuildRoleID,
			decrypt,
			obj{"Effect": "Allow", "Action": list{"logs:*"}, "Resource": "arn:aws:logs:*:*:*"},
			obj{"Effect": "Allow", "Action": list{"s3:GetObject", "s3:PutObject"}, "Resource": artifactObjects},
			obj{"Effect": "Allow", "Action": list{"ecr:GetAuthorizationToken"}, "Resource": "*"},
			obj{
				"Effect": "Allow",
				"Action": list{
					"ecr:BatchCheckLayerAvailability", "ecr:CompleteLayerUpload", "ecr:InitiateLayerUpload",
					"ecr:PutImage", "ecr:UploadLayerPart",
				},
				"Resource": GetAtt(ImageRepositoryID, "Arn"),
			},
		),
	})

	t.AddResource(LambdaRoleID, Resource{
		Type: "AWS::IAM::Role",
		Properties: role("lambda.amazonaws.com", p.FunctionName,
			obj{"Effect": "Allow", "Action": list{"logs:*"}, "Resource": "arn:aws:logs:*:*:*"},
			decrypt,
			obj{
				"Effect":   "Allow",
				"Action":   list{"codepipeline:PutJobFailureResult", "codepipeline:PutJobSuccessResult"},
				"Resource": "*",
			},
			obj{"Effect": "Allow", "Action": list{"s3:GetObject"}, "Resource": artifactObjects},
			obj{"Effect": "Allow", "Action": list{"codecommit:GetBranch"}, "Resource": GetAtt(RepositoryID, "Arn")},
			obj{
				"Effect": "Allow",
				"Action":   list{"sagemaker:CreateTrainingJob", "sagemaker:AddTags"},
				"Resource": "arn:aws:sagemaker:" + p.Region + ":" + p.AccountID + ":training-job/*",
			},
			obj{"Effect": "Allow", "Action": list{"iam:PassRole"}, "Resource": p.SageMakerRoleARN},
		),
	})

	t.AddResource(TriggerRoleID, Resource{
		Type: "AWS::IAM::Role",
		Properties: role("events.amazonaws.com", TriggerRoleID,
			obj{"Effect": "Allow", "Action": list{"codepipeline:StartPipelineExecution"}, "Resource": pipelineArn},
		),
	})
}

func policy(id string, statements ...obj) obj {
	doc := obj{"Version": "2012-10-17", "Statement": toList(statements)}
	if id != "" {
		doc["Id"] = id
	}
	return doc
}

func role(service, policyName string, statements ...obj) obj {
	return obj{
		"Path": "/",
		"AssumeRolePolicyDocument": policy("", obj{
			"Effect":    "Allow",
			"Principal": obj{"Service": list{service}},
			"Action":    list{"sts:AssumeRole"},
		}),
		"Policies": list{
			obj{"PolicyName": policyName, "PolicyDocument": policy("", statements...)},
		},
	}
}

func stage(name string, actions ...obj) obj {
	return obj{"Name": name, "Actions": toList(actions)}
}

func action(name, category, provider string, configuration obj, input, output string) obj {
	a := obj{
		"Name": name,
		"ActionTypeId": obj{
			"Category": category,
			"Owner":    "AWS",
			"Provider": provider,
			"Version":  "1",
		},
		"Configuration":   configuration,
		"RoleArn":         GetAtt(PipelineRoleID, "Arn"),
		"RunOrder":        1,
		"InputArtifacts":  list{},
		"OutputArtifacts": list{},
	}
	if input != "" {
		a["InputArtifacts"] = list{obj{"Name": input}}
	}
	if output != "" {
		a["OutputArtifacts"] = list{obj{"Name": output}}
	}
	return a
}

func toList(items []obj) list {
	out := make(list, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
